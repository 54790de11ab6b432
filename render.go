package audit2pdf

import (
	"html"
	"strings"
)

// documentLang is the language of the fixed report labels.
const documentLang = "ru"

// Renderer turns a validated Report into a self-contained HTML document.
// A Renderer is immutable after construction and safe for concurrent use.
type Renderer struct {
	css  string
	code *highlighter
}

// NewRenderer creates a Renderer that inlines css into every document.
// The style sheet is sanitized once here so that it cannot close the
// surrounding <style> element.
func NewRenderer(css string) *Renderer {
	return &Renderer{
		css:  sanitizeCSS(css),
		code: newHighlighter(),
	}
}

// Render builds the report document. It is total and deterministic: the
// same report always yields byte-identical markup, and no input makes it
// fail. All free text is escaped; the markup references no network resource.
func (r *Renderer) Render(report *Report) string {
	var b strings.Builder
	b.Grow(32 * 1024)

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html lang="` + documentLang + `">` + "\n")
	b.WriteString("<head>\n")
	b.WriteString(`<meta charset="utf-8"/>` + "\n")
	b.WriteString("<title>SEO Audit · " + html.EscapeString(report.Domain) + "</title>\n")
	b.WriteString("<style>" + r.css + "</style>\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")

	writeCover(&b, report)
	writeMetrics(&b, report.Metrics)
	writeExecSummary(&b, report.ExecSummaryParagraphs)
	writeTOC(&b, report.Blocks)
	for i := range report.Blocks {
		r.writeBlock(&b, &report.Blocks[i])
	}
	writeSummaryTable(&b, report)
	writeConclusion(&b, report)

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
