/*
Package domain contains the core domain models for Scribe.

It defines the fundamental entities of the narrated ingestion pipeline: the
narration Script and its rendering Frame, the upload Job and its Documents,
and the lifecycle events emitted while a run progresses. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Script / Line: the ordered narration consumed by the sequencer.
  - Frame: a pure snapshot of "what should be visible right now" (line index,
    reveal progress, phase), decoupled from any rendering surface.
  - Job / Document / Chunk: an upload batch moving through the ingestion
    pipeline.
*/
package domain
