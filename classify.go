package audit2pdf

import "strings"

// tagRule maps tags containing any of its tokens to a CSS class.
type tagRule struct {
	tokens []string
	class  string
}

// tagRules is evaluated top to bottom against the lower-cased tag; the
// first rule with a matching token wins. Order is significant: a tag such
// as "Критическая индексация" must resolve to the critical class.
var tagRules = []tagRule{
	{tokens: []string{"крит"}, class: "tag tag-critical"},
	{tokens: []string{"высок"}, class: "tag tag-high"},
	{tokens: []string{"средн"}, class: "tag tag-medium"},
	{tokens: []string{"низк"}, class: "tag tag-low"},
	{tokens: []string{"индекс", "конфиг", "url"}, class: "tag tag-indexing"},
	{tokens: []string{"on-page", "on_page"}, class: "tag tag-onpage"},
	{tokens: []string{"произв", "ux"}, class: "tag tag-perf"},
}

// fallbackTagClass applies when no rule matches.
const fallbackTagClass = "tag tag-innovation"

// TagClass returns the CSS class for a tag chip.
func TagClass(tag string) string {
	t := strings.ToLower(tag)
	for _, rule := range tagRules {
		for _, token := range rule.tokens {
			if strings.Contains(t, token) {
				return rule.class
			}
		}
	}
	return fallbackTagClass
}

// badge is the severity marker shown on an issue card.
type badge struct {
	class string
	label string
}

var severityBadges = map[Severity]badge{
	SeverityCritical: {class: "sev-critical", label: "● Критично"},
	SeverityHigh:     {class: "sev-high", label: "● Высокая"},
	SeverityMedium:   {class: "sev-medium", label: "● Средняя"},
	SeverityLow:      {class: "sev-low", label: "● Низкая"},
}

// severityLabels are the summary-table labels, distinct from badge labels.
var severityLabels = map[Severity]string{
	SeverityCritical: "Критическая",
	SeverityHigh:     "Высокая",
	SeverityMedium:   "Средняя",
	SeverityLow:      "Низкая",
}

// metricClass normalizes a metric colour; unknown values render blue.
func metricClass(c MetricColor) string {
	if c.Valid() {
		return string(c)
	}
	return string(ColorBlue)
}

// shortBlockLabel keeps the first two whitespace-separated words of a
// block title.
func shortBlockLabel(title string) string {
	words := strings.Fields(title)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}
