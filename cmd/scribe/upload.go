package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aretw0/scribe"
	"github.com/aretw0/scribe/pkg/adapters/term"
	"github.com/aretw0/scribe/pkg/domain"
	"github.com/spf13/cobra"
)

// defaultUploadScript narrates the client-side upload flow when no script
// repository is configured.
var defaultUploadScript = domain.Script{
	{Text: "Uploading your documents."},
	{Text: "Extracting names and usage notes."},
	{Text: "Splitting the text into chunks."},
	{Text: "Building the index."},
}

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload PDF files and build their index",
	Long: `Uploads the given files to a running Scribe server, triggers the index
build, and narrates the progress on the terminal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		scriptDir, _ := cmd.Flags().GetString("script")
		skipIndex, _ := cmd.Flags().GetBool("no-index")
		ctx := cmd.Context()

		nar, err := buildNarrator(ctx, scriptDir)
		if err != nil {
			return err
		}
		defer nar.Dispose()

		nar.Start(ctx, len(args))

		jobID, err := uploadFiles(ctx, server, args)
		if err != nil {
			nar.Cancel()
			return err
		}

		if !skipIndex {
			if err := upsertJob(ctx, server, jobID); err != nil {
				nar.Cancel()
				return err
			}
		}

		nar.Succeed(ctx)
		return printReport(ctx, server, jobID)
	},
}

// buildNarrator wires the overlay: Loam-backed script when one is configured,
// the built-in lines otherwise. Piped output gets no overlay at all.
func buildNarrator(ctx context.Context, scriptDir string) (*scribe.Narrator, error) {
	opts := []scribe.Option{}
	if term.IsTerminal(os.Stderr) {
		opts = append(opts, scribe.WithSurface(term.NewSurface(os.Stderr)))
	}
	if scriptDir != "" {
		return scribe.New(ctx, scriptDir, opts...)
	}
	opts = append(opts, scribe.WithScript(defaultUploadScript))
	return scribe.New(ctx, "", opts...)
}

func uploadFiles(ctx context.Context, server string, paths []string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", path, err)
		}
		part, err := w.CreateFormFile("files", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		_ = f.Close()
		if err != nil {
			return "", fmt.Errorf("failed to attach %s: %w", path, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server+"/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		JobID    string `json:"job_id"`
		Rejected []struct {
			File   string `json:"file"`
			Reason string `json:"reason"`
		} `json:"rejected"`
	}
	if err := doJSON(req, &out); err != nil {
		return "", err
	}
	for _, r := range out.Rejected {
		fmt.Fprintf(os.Stderr, "rejected %s: %s\n", r.File, r.Reason)
	}
	return out.JobID, nil
}

func upsertJob(ctx context.Context, server, jobID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server+"/upsert/"+jobID, nil)
	if err != nil {
		return err
	}
	return doJSON(req, &struct{}{})
}

// printReport fetches the final job state and renders a markdown summary.
func printReport(ctx context.Context, server, jobID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server+"/jobs/"+jobID, nil)
	if err != nil {
		return err
	}

	var job domain.Job
	if err := doJSON(req, &job); err != nil {
		return err
	}

	render := term.NewReportRenderer()
	out, err := render(term.JobReport(&job))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func doJSON(req *http.Request, out any) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: %s (%s)", req.Method, req.URL.Path, resp.Status, bytes.TrimSpace(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().String("server", "http://localhost:8080", "Scribe server base URL")
	uploadCmd.Flags().String("script", "", "Loam directory with custom narration lines")
	uploadCmd.Flags().Bool("no-index", false, "Only spool the files, skip the index build")
}
