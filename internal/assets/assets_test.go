package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		styleName string
		wantErr   error
	}{
		{
			name:      "report style returns content",
			styleName: DefaultStyle,
		},
		{
			name:      "nonexistent style returns ErrStyleNotFound",
			styleName: "nonexistent",
			wantErr:   ErrStyleNotFound,
		},
		{
			name:      "valid name with hyphen",
			styleName: "my-style",
			wantErr:   ErrStyleNotFound,
		},
		{
			name:      "empty name returns ErrInvalidAssetName",
			styleName: "",
			wantErr:   ErrInvalidAssetName,
		},
		{
			name:      "path traversal with slash",
			styleName: "../secret",
			wantErr:   ErrInvalidAssetName,
		},
		{
			name:      "path traversal with backslash",
			styleName: "..\\secret",
			wantErr:   ErrInvalidAssetName,
		},
		{
			name:      "name with dot",
			styleName: "report.css",
			wantErr:   ErrInvalidAssetName,
		},
		{
			name:      "absolute path",
			styleName: "/etc/passwd",
			wantErr:   ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadStyle(tt.styleName)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if got == "" {
				t.Errorf("LoadStyle(%q) returned empty content", tt.styleName)
			}
		})
	}
}

func TestReportStyle_CoversRenderedClasses(t *testing.T) {
	t.Parallel()

	css, err := ReportStyle()
	if err != nil {
		t.Fatalf("ReportStyle() error = %v", err)
	}

	for _, selector := range []string{
		".cover-issues-count",
		".metric-value.blue",
		".toc-item-num",
		".block-header",
		".issue-card",
		".sev-critical",
		".tag-innovation",
		".summary-table",
		".report-footer",
		"@page",
	} {
		if !strings.Contains(css, selector) {
			t.Errorf("report style missing %q", selector)
		}
	}
}

func TestReportStyle_NoExternalResources(t *testing.T) {
	t.Parallel()

	css, err := ReportStyle()
	if err != nil {
		t.Fatalf("ReportStyle() error = %v", err)
	}

	for _, banned := range []string{"@import", "url(", "</"} {
		if strings.Contains(css, banned) {
			t.Errorf("report style contains %q", banned)
		}
	}
}
