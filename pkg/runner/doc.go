/*
Package runner drives a wizard session from a terminal or any line-based stream.

It sits between the stateless engine and the outside world: each turn it
projects the state into a View, hands it to an IOHandler, reads one line of
input and turns it into a Submit, Advance, Back or Complete call.

# Key Components

  - Runner: the turn loop, with optional persistence through a session.Manager.
  - IOHandler: decouples how views are shown and input is read.
  - TextHandler: interactive prompts with numbered choices.
  - JSONHandler: one View per line for headless drivers.

# Commands

A line is read as an answer unless it is one of the reserved words:
"next" (or an empty line) advances, "back" returns to the previous step,
"confirm" seals the summary and "exit"/"quit" stops the loop. On select
questions a number picks the matching option.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithFlow("profile-setup"),
		runner.WithSessionID("user-1"),
		runner.WithSessions(session.NewManager(store)),
	)

	state, err := r.Run(ctx)
*/
package runner
