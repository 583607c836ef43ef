/*
Package scribe narrates long-running background work one line at a time.

It implements a cooperative, cancellable narration sequencer: lines are
revealed with a typewriter effect, replaced through fade transitions, and
paced by a gap that scales with the size of the job being narrated. Each call
to Start supersedes the previous run, so the overlay always tells the story
of the most recent operation and never interleaves two of them.

# Concept

Scribe separates the narration logic (the sequencer) from where it is drawn
(the Surface port) and where its lines come from (the ScriptLoader port).
This Hexagonal Architecture lets the same sequencer drive an ANSI terminal,
a test recorder, or any custom render target, with scripts loaded from a
Loam repository, from memory, or injected directly.

# Key Features

  - Run supersession: a new Start, Succeed or Cancel invalidates the active
    run before any new output is drawn.
  - Count-scaled pacing: the gap between lines grows with the job size hint
    and is clamped to stay readable.
  - Pure frames: the sequencer emits Frame values; surfaces decide how to
    render them.
  - Editable copy: narration lines live as markdown files with frontmatter
    and can be hot-reloaded without recompiling.

# Usage

Initialize the narrator with a script directory (read via Loam) or inject
lines directly, then drive it around your background operation.

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/scribe"
		"github.com/aretw0/scribe/pkg/adapters/term"
	)

	func main() {
		ctx := context.Background()

		nar, err := scribe.New(ctx, "./narration",
			scribe.WithSurface(term.NewSurface(os.Stderr)),
		)
		if err != nil {
			log.Fatal(err)
		}
		defer nar.Dispose()

		// Narrate a job of 3 documents while it runs.
		nar.Start(ctx, 3)

		if err := doTheWork(ctx); err != nil {
			nar.Cancel()
			log.Fatal(err)
		}

		// Announce completion and hide the overlay.
		nar.Succeed(ctx)
	}
*/
package scribe
