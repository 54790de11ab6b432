package assets

// DefaultStyle is the style sheet every report is rendered with.
const DefaultStyle = "report"

// StyleLoader loads a CSS style by name (without .css extension).
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

// defaultLoader serves the package-level helpers.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded style by name.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or dots.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// ReportStyle loads the default report style sheet.
func ReportStyle() (string, error) {
	return defaultLoader.LoadStyle(DefaultStyle)
}
