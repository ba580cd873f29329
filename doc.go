/*
Package intake is a branching step-wizard engine for guided questionnaires such as
patient intake, clinician onboarding and profile setup.

A wizard is declared once as a flow: an ordered, immutable table of questions
(single-select, multi-select, free text or numeric), each optionally guarded by a
visibility condition over earlier answers, followed by an implicit summary step.
The engine walks a session through the flow, keeps the answers in a keyed store,
and projects a render-ready view and a human-readable summary.

# Concept

The engine is stateless. Every operation takes a session state and returns the
next one; a rejected operation returns the state unchanged together with a
*domain.ValidationError, so callers never lose data by mistake. Hosts (a terminal,
an HTTP server, an AI agent via MCP) own the I/O and decide where states live.

# Key Features

  - Conditional steps: hidden steps are skipped when advancing and never reach the summary.
  - Stable history: Back walks the visited path and keeps answers given further ahead.
  - Pluggable sources: flows come from a Loam repository, YAML/JSON files, or Go code.
  - Completion sinks: confirmed answers are handed off to any number of sinks.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/intake"
	)

	func main() {
		// Reads flow definitions from ./flows
		eng, err := intake.New("./flows")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		state, err := eng.Start(ctx, "profile-setup", "")
		if err != nil {
			log.Fatal(err)
		}

		state, err = eng.Submit(ctx, state, state.Current, "Ada")
		if err != nil {
			log.Fatal(err)
		}
		if state, err = eng.Advance(ctx, state); err != nil {
			log.Printf("cannot continue yet: %v", err)
		}

		view, _ := eng.View(ctx, state)
		log.Println(view.Steps[len(view.Steps)-1].Prompt)
	}
*/
package intake
