package term

import (
	"fmt"
	"strings"

	"github.com/aretw0/scribe/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewReportRenderer returns a function that renders markdown using glamour.
// Used for the post-ingest summary printed by the CLI.
func NewReportRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// JobReport formats an indexed job as markdown for the summary renderer.
func JobReport(job *domain.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Job %s\n\n", job.ID)
	fmt.Fprintf(&b, "**Status:** %s  \n", job.Status)
	fmt.Fprintf(&b, "**Documents:** %d  \n", len(job.Documents))
	fmt.Fprintf(&b, "**Chunks:** %d\n\n", job.Chunks)

	if len(job.Documents) > 0 {
		b.WriteString("| Document | Brand | Chunks |\n")
		b.WriteString("|---|---|---|\n")
		for _, d := range job.Documents {
			fmt.Fprintf(&b, "| %s | %s | %d |\n", d.Name, d.BrandName, d.Chunks)
		}
	}
	return b.String()
}
