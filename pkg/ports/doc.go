/*
Package ports defines the driven ports (interfaces) for the intake engine.

These interfaces decouple the wizard core from external implementations,
allowing the engine to work with various flow sources, session stores and
completion hand-off targets.

# Key Interfaces

  - FlowLoader: Resolves flow definitions (e.g., from Loam documents or memory).
  - StateStore: Persists and loads session State.
  - DistributedLocker: Provides distributed locking for concurrent session access.
  - CompletionSink: Receives the finished Answer Store once a summary is confirmed.
*/
package ports
