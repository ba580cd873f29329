/*
Package domain contains the core domain models of the intake wizard engine.

It defines the entities the step-wizard state machine works with: the
questions a flow asks, the answers a user accumulates and the session
state that records which steps were actually shown. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Question: One step of a flow (single-select, multi-select, free text or numeric).
  - Condition: Declarative visibility rule evaluated against the answers.
  - Answers: The Answer Store, a mapping from question key to value or selected set.
  - State: Runtime snapshot of a session (current step, visited path, answers).
  - View: Read-only, render-ready projection of a State.
  - SummaryEntry: Flat (label, value) pair shown on the confirmation step.
*/
package domain
