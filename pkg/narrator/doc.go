/*
Package narrator implements the overlay narration sequencer.

A Sequencer drives an ordered script of narration lines, revealing each line
character by character (typewriter), fading between lines, and pacing the
inter-line gap by the size of the job being narrated. Runs are identified by a
monotonic counter: starting a new run (or calling Succeed/Cancel) increments
the counter, and an in-flight run checks it at every suspension point,
terminating silently when superseded. At most one run ever mutates the
rendering surface at a time.

The sequencer computes pure domain.Frame values and hands them to a
ports.Surface, so the timing and cancellation logic can be tested with a fake
clock and a recording surface, without any terminal attached.
*/
package narrator
