package audit2pdf

import (
	"fmt"
	"html"
	"strings"
)

// esc escapes free text for element content and quoted attribute values.
var esc = html.EscapeString

func writeCover(b *strings.Builder, r *Report) {
	b.WriteString(`<section class="cover">` + "\n")
	b.WriteString(`<div class="cover-badge">Технический SEO-аудит</div>` + "\n")
	fmt.Fprintf(b, "<h1>Аудит сайта<br/><span>%s</span></h1>\n", esc(r.ClientName))
	fmt.Fprintf(b, `<div class="cover-domain">%s</div>`+"\n", esc(r.Domain))
	fmt.Fprintf(b, `<div class="cover-issues-count">%d<span>точек роста</span></div>`+"\n", r.TotalIssues)

	b.WriteString(`<div class="cover-meta">` + "\n")
	writeCoverMeta(b, "Дата проведения", esc(r.Date))
	writeCoverMeta(b, "Критических", fmt.Sprintf("%d критических", r.CriticalCount))
	writeCoverMeta(b, "Версия документа", esc(r.Version))
	b.WriteString("</div>\n")

	if r.StatusText != "" {
		fmt.Fprintf(b, `<div class="cover-status">⚠ Статус: %s</div>`+"\n", esc(r.StatusText))
	}
	b.WriteString("</section>\n")
}

func writeCoverMeta(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<div class="cover-meta-item"><span class="cover-meta-label">%s</span><span class="cover-meta-value">%s</span></div>`+"\n",
		label, value)
}

func writeMetrics(b *strings.Builder, metrics []Metric) {
	if len(metrics) == 0 {
		return
	}
	b.WriteString(`<section class="metrics-row">` + "\n")
	for _, m := range metrics {
		b.WriteString(`<div class="metric-card">`)
		fmt.Fprintf(b, `<div class="metric-value %s">%s</div>`, metricClass(m.Color), esc(m.Value))
		fmt.Fprintf(b, `<div class="metric-label">%s</div>`, esc(m.Label))
		fmt.Fprintf(b, `<div class="metric-sub">%s</div>`, esc(m.Sub))
		b.WriteString("</div>\n")
	}
	b.WriteString("</section>\n")
}

func writeExecSummary(b *strings.Builder, paragraphs []string) {
	b.WriteString(`<section class="exec-summary">` + "\n")
	b.WriteString(`<div class="section-label">Executive Summary</div>` + "\n")
	b.WriteString("<h2>Краткое резюме</h2>\n")
	writeParagraphs(b, paragraphs)
	b.WriteString("</section>\n")
}

// writeTOC lists every issue in block order, then issue order.
func writeTOC(b *strings.Builder, blocks []Block) {
	b.WriteString(`<section class="toc">` + "\n")
	b.WriteString("<h2>Содержание аудита</h2>\n")
	b.WriteString(`<ol class="toc-list">` + "\n")
	for _, block := range blocks {
		for _, issue := range block.Issues {
			fmt.Fprintf(b, `<li class="toc-item"><span class="toc-item-num">%d</span><span class="toc-item-title">%s</span></li>`+"\n",
				issue.ID, esc(issue.Title))
		}
	}
	b.WriteString("</ol>\n")
	b.WriteString("</section>\n")
}

func (r *Renderer) writeBlock(b *strings.Builder, block *Block) {
	fmt.Fprintf(b, `<section class="block" id="block-%s">`+"\n", esc(string(block.Number)))
	fmt.Fprintf(b, `<div class="block-header" style="background: %s">`, esc(block.Gradient))
	fmt.Fprintf(b, `<div class="block-number">%s</div>`, esc(string(block.Number)))
	fmt.Fprintf(b, "<h3>%s</h3>", esc(block.Title))
	fmt.Fprintf(b, "<p>%s</p>", esc(block.Description))
	b.WriteString("</div>\n")
	for i := range block.Issues {
		r.writeIssue(b, &block.Issues[i])
	}
	b.WriteString("</section>\n")
}

func (r *Renderer) writeIssue(b *strings.Builder, issue *Issue) {
	b.WriteString(`<article class="issue-card audit-item">` + "\n")
	b.WriteString(`<div class="issue-header">`)
	fmt.Fprintf(b, `<span class="issue-num">%02d</span>`, issue.ID)
	fmt.Fprintf(b, `<span class="issue-title">%s</span>`, esc(issue.Title))
	if sev, ok := severityBadges[issue.Severity]; ok {
		fmt.Fprintf(b, `<span class="severity-badge %s">%s</span>`, sev.class, sev.label)
	}
	b.WriteString("</div>\n")

	if len(issue.Tags) > 0 {
		b.WriteString(`<div class="issue-tags">`)
		for _, tag := range issue.Tags {
			fmt.Fprintf(b, `<span class="%s">%s</span>`, TagClass(tag), esc(tag))
		}
		b.WriteString("</div>\n")
	}

	writeIssueText(b, "Что зафиксировано", r.issueText(issue.Symptom))
	writeIssueText(b, "Влияние на SEO и бизнес", r.issueText(issue.Impact))
	b.WriteString("</article>\n")
}

// writeIssueText emits a labelled block of already-rendered markup.
func writeIssueText(b *strings.Builder, label, markup string) {
	b.WriteString(`<div class="issue-block">`)
	fmt.Fprintf(b, `<div class="issue-block-label">%s</div>`, label)
	fmt.Fprintf(b, `<div class="issue-block-text">%s</div>`, markup)
	b.WriteString("</div>\n")
}

// writeSummaryTable renders the supplied summary rows, or one row per issue
// when none were supplied.
func writeSummaryTable(b *strings.Builder, r *Report) {
	b.WriteString(`<section class="summary-table">` + "\n")
	b.WriteString(`<div class="section-label">Сводная таблица</div>` + "\n")
	b.WriteString("<h2>Все выявленные проблемы</h2>\n")
	b.WriteString(`<p class="section-sub">Полный список с приоритетами и категориями для удобного планирования</p>` + "\n")
	b.WriteString("<table>\n<thead><tr><th>#</th><th>Проблема</th><th>Блок</th><th>Критичность</th></tr></thead>\n<tbody>\n")

	for _, row := range summaryRows(r) {
		fmt.Fprintf(b, "<tr><td>%02d</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			row.ID, esc(row.ShortTitle), esc(row.Block), severityCell(row.Severity))
	}

	b.WriteString("</tbody>\n</table>\n")
	b.WriteString("</section>\n")
}

// summaryRows returns the rows of the summary table. Supplied rows replace
// the derived ones as given, so their short titles stand in for issue
// titles; an empty list counts as not supplied.
func summaryRows(r *Report) []SummaryRow {
	if len(r.SummaryRows) > 0 {
		return r.SummaryRows
	}
	rows := make([]SummaryRow, 0, r.IssueCount())
	for _, block := range r.Blocks {
		label := shortBlockLabel(block.Title)
		for _, issue := range block.Issues {
			rows = append(rows, SummaryRow{
				ID:         issue.ID,
				ShortTitle: issue.Title,
				Block:      label,
				Severity:   issue.Severity,
			})
		}
	}
	return rows
}

func severityCell(s Severity) string {
	label, ok := severityLabels[s]
	if !ok {
		return ""
	}
	return fmt.Sprintf(`<span class="tag tag-%s">%s</span>`, s, label)
}

func writeConclusion(b *strings.Builder, r *Report) {
	b.WriteString(`<section class="conclusion">` + "\n")
	b.WriteString(`<div class="section-label">Заключение</div>` + "\n")
	b.WriteString("<h2>Резюме</h2>\n")
	writeParagraphs(b, r.ConclusionParagraphs)
	b.WriteString("</section>\n")

	b.WriteString(`<footer class="report-footer">` + "\n")
	fmt.Fprintf(b, "<div>Технический SEO-аудит · %s</div>\n", esc(r.Domain))
	fmt.Fprintf(b, "<div>Дата проведения: %s · Версия документа: %s</div>\n", esc(r.Date), esc(r.Version))
	b.WriteString("<div>Документ подготовлен для внутреннего использования.</div>\n")
	b.WriteString("</footer>\n")
}

func writeParagraphs(b *strings.Builder, paragraphs []string) {
	for _, p := range paragraphs {
		fmt.Fprintf(b, "<p>%s</p>\n", esc(p))
	}
}
