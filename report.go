package audit2pdf

// Severity ranks an issue by urgency.
type Severity string

// Severity values, ordered by decreasing urgency.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists every severity in decreasing urgency.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Valid reports whether s belongs to the closed severity set (case-sensitive).
func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// Rank returns 0 for critical through 3 for low, or -1 for unknown values.
func (s Severity) Rank() int {
	for i, v := range Severities {
		if v == s {
			return i
		}
	}
	return -1
}

// MetricColor selects the accent colour of a metric card.
type MetricColor string

// Metric colours.
const (
	ColorRed    MetricColor = "red"
	ColorOrange MetricColor = "orange"
	ColorYellow MetricColor = "yellow"
	ColorBlue   MetricColor = "blue"
	ColorGreen  MetricColor = "green"
)

// MetricColors lists the closed colour set.
var MetricColors = []MetricColor{ColorRed, ColorOrange, ColorYellow, ColorBlue, ColorGreen}

// Valid reports whether c belongs to the closed colour set.
func (c MetricColor) Valid() bool {
	for _, v := range MetricColors {
		if v == c {
			return true
		}
	}
	return false
}

// BlockNumber is the roman numeral labelling a thematic block.
type BlockNumber string

// BlockNumbers lists the accepted block labels, I through X.
var BlockNumbers = []BlockNumber{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}

// Valid reports whether n is one of I..X.
func (n BlockNumber) Valid() bool {
	for _, v := range BlockNumbers {
		if v == n {
			return true
		}
	}
	return false
}

// Report is the validated root of one audit.
// TotalIssues and CriticalCount are declared by the author and are not
// recomputed from Blocks.
type Report struct {
	ClientName            string       `json:"clientName"`
	Domain                string       `json:"domain"`
	Date                  string       `json:"date"`
	Version               string       `json:"version"`
	TotalIssues           int          `json:"totalIssues"`
	CriticalCount         int          `json:"criticalCount"`
	StatusText            string       `json:"statusText"`
	ExecSummaryParagraphs []string     `json:"execSummaryParagraphs"`
	Metrics               []Metric     `json:"metrics"`
	Blocks                []Block      `json:"blocks"`
	SummaryRows           []SummaryRow `json:"summaryRows,omitempty"` // nil = derive from Blocks
	ConclusionParagraphs  []string     `json:"conclusionParagraphs"`
}

// Block is a roman-numeral section grouping related issues.
type Block struct {
	Number      BlockNumber `json:"number"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Gradient    string      `json:"gradient"` // CSS background value, passed through
	Issues      []Issue     `json:"issues"`
}

// Issue is a single finding.
type Issue struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	Tags     []string `json:"tags"`
	Symptom  string   `json:"symptom"`
	Impact   string   `json:"impact"`
}

// Metric is a key number shown on the metrics row, e.g. "12.7s".
type Metric struct {
	Value string      `json:"value"`
	Label string      `json:"label"`
	Sub   string      `json:"sub"`
	Color MetricColor `json:"color"`
}

// SummaryRow is one line of the summary table.
type SummaryRow struct {
	ID         int      `json:"id"`
	ShortTitle string   `json:"shortTitle"`
	Block      string   `json:"block"`
	Severity   Severity `json:"severity"`
}

// IssueCount returns the number of issues across all blocks.
func (r *Report) IssueCount() int {
	n := 0
	for _, b := range r.Blocks {
		n += len(b.Issues)
	}
	return n
}
