/*
Package observability provides tools for monitoring the intake engine.

Both Metrics and LogHooks are expressed as domain.LifecycleHooks, so they plug into
the engine with WithLifecycleHooks and compose through LifecycleHooks.Merge.
*/
package observability
