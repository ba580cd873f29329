/*
Package dsl provides a Go DSL (Domain Specific Language) for declaring wizard flows.

It allows developers to define question sequences using a type-safe, fluent builder pattern
instead of relying on external YAML or JSON files. This is particularly useful for flows
shipped with a binary, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/aretw0/intake/pkg/dsl"
	)

	func main() {
		b := dsl.New("check-in").Title("Daily check-in")

		b.Single("mood", "How are you feeling?", "Good", "Bad", "Other")

		b.Text("mood_detail", "Tell us more").
			WhenEquals("mood", "Other")

		b.Multi("goals", "What would you like to work on?", "Sleep", "Focus").
			Label("Goals")

		b.Text("notes", "Anything else, {{ .mood_detail }}?").
			Optional()

		// The resulting flow can be served by a memory loader.
		f, err := b.Build()
		// ... pass memory.NewLoader(f) to intake.New("", intake.WithLoader(...))
	}
*/
package dsl
