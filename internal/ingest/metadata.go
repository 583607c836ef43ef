package ingest

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	brandRe   = regexp.MustCompile(`(?i)Brand\s*name\s*:\s*(.+)`)
	usageRe   = regexp.MustCompile(`(?i)Usage\s*:\s*(.+)`)
	leadingID = regexp.MustCompile(`^\d+[_\-]*`)
	spacesRe  = regexp.MustCompile(`\s+`)
	slugRe    = regexp.MustCompile(`[^a-z0-9\-]`)
	forbidden = regexp.MustCompile(`[\\/:*?"<>|]+`)
	dashRunRe = regexp.MustCompile(`-{2,}`)
)

// maxFilenameLen caps sanitized filenames so they stay portable.
const maxFilenameLen = 140

// NormalizeName removes leading numeric IDs from a filename and slugifies the
// rest, producing a stable document key.
func NormalizeName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.TrimSpace(leadingID.ReplaceAllString(base, ""))
	base = strings.ToLower(base)
	base = spacesRe.ReplaceAllString(base, "-")
	return slugRe.ReplaceAllString(base, "")
}

// ExtractBrandName finds a "Brand name:" line in the document text, falling
// back to a prettified filename.
func ExtractBrandName(text, filename string) string {
	if m := brandRe.FindStringSubmatch(text); m != nil {
		line := m[1]
		if i := strings.IndexAny(line, "\r\n"); i >= 0 {
			line = line[:i]
		}
		return strings.TrimSpace(line)
	}
	return strings.ReplaceAll(NormalizeName(filename), "-", " ")
}

// ExtractUsage returns the one-line "Usage:" summary if present.
func ExtractUsage(text string) string {
	m := usageRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	line := m[1]
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	return spacesRe.ReplaceAllString(strings.TrimSpace(line), " ")
}

// SanitizeFilename makes a client-supplied filename safe to spool: NFKC
// normalization, trademark symbols stripped, filesystem-forbidden characters
// replaced, whitespace collapsed, length capped.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(spacesRe.ReplaceAllString(name, " "))
	name = norm.NFKC.String(name)

	for _, sym := range []string{"®", "™", "©"} {
		name = strings.ReplaceAll(name, sym, "")
	}
	name = strings.TrimSpace(spacesRe.ReplaceAllString(name, " "))

	name = forbidden.ReplaceAllString(name, "-")
	name = dashRunRe.ReplaceAllString(name, "-")
	name = strings.TrimSpace(name)
	name = strings.TrimRight(name, " .")

	if name == "" {
		name = "unknown"
	}

	if len([]rune(name)) > maxFilenameLen {
		name = string([]rune(name)[:maxFilenameLen])
		name = strings.TrimRight(name, " .-")
	}

	return name
}
