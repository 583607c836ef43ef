package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/scribe"
	"github.com/aretw0/scribe/pkg/adapters/term"
	"github.com/aretw0/scribe/pkg/narrator"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// timingProfile is the YAML shape of a pacing profile. Durations are written
// as Go duration strings ("28ms", "1.2s"); empty fields keep the default.
type timingProfile struct {
	CharDelay   string `yaml:"char_delay"`
	PunctFactor int    `yaml:"punct_factor"`
	Fade        string `yaml:"fade"`
	BaseGap     string `yaml:"base_gap"`
	GapStep     string `yaml:"gap_step"`
	MaxGap      string `yaml:"max_gap"`
	Settle      string `yaml:"settle"`
}

var narrateCmd = &cobra.Command{
	Use:   "narrate",
	Short: "Preview the narration overlay",
	Long: `Runs the narration overlay against simulated work, so narration copy and
pacing can be tuned without uploading anything.

Lines come from a Loam directory (--script) or from the built-in script.
Pacing can be overridden with a YAML profile (--timing).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scriptDir, _ := cmd.Flags().GetString("script")
		timingPath, _ := cmd.Flags().GetString("timing")
		count, _ := cmd.Flags().GetInt("count")
		work, _ := cmd.Flags().GetDuration("work")
		watch, _ := cmd.Flags().GetBool("watch")
		ctx := cmd.Context()

		term.PrintBanner()

		opts := []scribe.Option{
			scribe.WithSurface(term.NewSurface(os.Stderr)),
		}
		if timingPath != "" {
			timing, err := loadTiming(timingPath)
			if err != nil {
				return err
			}
			opts = append(opts, scribe.WithTiming(timing))
		}

		var nar *scribe.Narrator
		var err error
		if scriptDir != "" {
			nar, err = scribe.New(ctx, scriptDir, opts...)
		} else {
			opts = append(opts, scribe.WithScript(defaultUploadScript))
			nar, err = scribe.New(ctx, "", opts...)
		}
		if err != nil {
			return err
		}
		defer nar.Dispose()

		var changes <-chan struct{}
		if watch {
			changes, err = nar.Watch(ctx)
			if err != nil {
				return err
			}
		}

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupt)

		nar.Start(ctx, count)

		for {
			select {
			case <-time.After(work):
				nar.Succeed(ctx)
				return nil

			case <-changes:
				// Script edited: reload and restart the narration.
				if err := nar.Reload(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
					continue
				}
				nar.Start(ctx, count)

			case <-interrupt:
				nar.Cancel()
				return nil
			}
		}
	},
}

func loadTiming(path string) (narrator.Timing, error) {
	timing := narrator.DefaultTiming()

	data, err := os.ReadFile(path)
	if err != nil {
		return timing, fmt.Errorf("failed to read timing profile: %w", err)
	}

	var profile timingProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return timing, fmt.Errorf("invalid timing profile: %w", err)
	}

	set := func(dst *time.Duration, raw string) error {
		if raw == "" {
			return nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q in timing profile: %w", raw, err)
		}
		*dst = d
		return nil
	}

	for _, field := range []struct {
		dst *time.Duration
		raw string
	}{
		{&timing.CharDelay, profile.CharDelay},
		{&timing.Fade, profile.Fade},
		{&timing.BaseGap, profile.BaseGap},
		{&timing.GapStep, profile.GapStep},
		{&timing.MaxGap, profile.MaxGap},
		{&timing.Settle, profile.Settle},
	} {
		if err := set(field.dst, field.raw); err != nil {
			return timing, err
		}
	}
	if profile.PunctFactor > 0 {
		timing.PunctFactor = profile.PunctFactor
	}

	return timing, nil
}

func init() {
	rootCmd.AddCommand(narrateCmd)
	narrateCmd.Flags().String("script", "", "Loam directory with custom narration lines")
	narrateCmd.Flags().String("timing", "", "YAML pacing profile")
	narrateCmd.Flags().Int("count", 3, "Simulated job size (scales the inter-line gap)")
	narrateCmd.Flags().Duration("work", 10*time.Second, "How long the simulated work runs")
	narrateCmd.Flags().Bool("watch", false, "Restart the narration when the script directory changes")
}
