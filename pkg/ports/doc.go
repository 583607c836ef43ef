/*
Package ports defines the driven ports (interfaces) for Scribe.

These interfaces decouple the core logic from external implementations,
allowing the sequencer and the ingestion service to work with various
rendering surfaces, storage backends, and clocks.

# Key Interfaces

  - Surface: Responsible for rendering narration frames (terminal, tests).
  - Clock: Responsible for time and cancellable sleeps (fakeable in tests).
  - JobStore: Responsible for persisting and loading ingestion jobs.
  - ScriptLoader: Responsible for loading narration scripts (Loam, Memory).
  - DistributedLocker: Provides distributed locking for concurrent indexing.
*/
package ports
