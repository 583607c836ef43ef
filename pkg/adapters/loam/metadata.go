package loam

// LineMetadata represents the frontmatter of a narration line document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type LineMetadata struct {
	// Order positions the line within the script. Lines are sorted by Order
	// ascending, then by document ID for stability.
	Order int `json:"order" mapstructure:"order"`

	// Pause optionally overrides the inter-line gap after this line,
	// e.g. "2s" or "750ms".
	Pause string `json:"pause,omitempty" mapstructure:"pause"`

	// Disabled skips the line without deleting its file.
	Disabled bool `json:"disabled,omitempty" mapstructure:"disabled"`
}
