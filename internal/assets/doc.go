// Package assets provides the report style sheet.
//
// Styles are embedded at compile time under styles/ and addressed by name
// without the .css extension. The report renderer loads its style sheet once
// at startup and inlines it into every document, so the generated markup
// never references an external resource.
//
// Asset names are validated before use: path separators, dots and empty
// names are rejected with ErrInvalidAssetName.
package assets
