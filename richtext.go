package audit2pdf

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// codeStyle is the chroma style used for fenced snippets in issue text.
const codeStyle = "github"

// fence opens and closes a code snippet inside issue text.
const fence = "```"

// highlighter colours fenced snippets with inline styles so the document
// needs no extra style sheet.
type highlighter struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

func newHighlighter() *highlighter {
	return &highlighter{
		formatter: chromahtml.New(chromahtml.WithClasses(false)),
		style:     styles.Get(codeStyle),
	}
}

// segment is a run of issue text: prose, or the body of a fenced snippet.
type segment struct {
	code bool
	lang string
	text string
}

// splitFences cuts src at lines that are exactly ``` (optionally followed by
// a language on the opening line). An opening fence without a matching
// close stays prose.
func splitFences(src string) []segment {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	var (
		out   []segment
		prose []string
	)
	flush := func() {
		if len(prose) > 0 {
			out = append(out, segment{text: strings.Join(prose, "\n")})
			prose = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		open := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(open, fence) {
			prose = append(prose, lines[i])
			continue
		}
		end := -1
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == fence {
				end = j
				break
			}
		}
		if end < 0 {
			prose = append(prose, lines[i])
			continue
		}
		flush()
		out = append(out, segment{
			code: true,
			lang: strings.TrimSpace(strings.TrimPrefix(open, fence)),
			text: strings.Join(lines[i+1:end], "\n"),
		})
		i = end
	}
	flush()
	return out
}

// issueText renders symptom or impact text verbatim: every character is
// escaped and line breaks are kept. Fenced snippets are highlighted.
func (r *Renderer) issueText(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	var b strings.Builder
	for _, seg := range splitFences(src) {
		if seg.code {
			b.WriteString(r.code.render(seg.lang, seg.text))
			continue
		}
		text := strings.Trim(seg.text, "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		for i := range lines {
			lines[i] = esc(lines[i])
		}
		b.WriteString("<p>" + strings.Join(lines, "<br/>") + "</p>")
	}
	return b.String()
}

// render highlights code. It never fails: a lexer or formatter error
// degrades to an escaped, unstyled block.
func (h *highlighter) render(lang, code string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "<pre><code>" + esc(code) + "</code></pre>"
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, iterator); err != nil {
		return "<pre><code>" + esc(code) + "</code></pre>"
	}
	return b.String()
}
