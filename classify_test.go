package audit2pdf

import "testing"

func TestTagClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want string
	}{
		{tag: "Критично", want: "tag tag-critical"},
		{tag: "Высокий приоритет", want: "tag tag-high"},
		{tag: "Средний", want: "tag tag-medium"},
		{tag: "низкая", want: "tag tag-low"},
		{tag: "Индексация", want: "tag tag-indexing"},
		{tag: "Конфигурация сервера", want: "tag tag-indexing"},
		{tag: "URL", want: "tag tag-indexing"},
		{tag: "On-Page", want: "tag tag-onpage"},
		{tag: "on_page", want: "tag tag-onpage"},
		{tag: "Производительность", want: "tag tag-perf"},
		{tag: "UX", want: "tag tag-perf"},
		{tag: "Инновации", want: "tag tag-innovation"},
		{tag: "", want: "tag tag-innovation"},

		// First matching rule wins
		{tag: "Критическая индексация", want: "tag tag-critical"},
		{tag: "Высокая производительность", want: "tag tag-high"},
		{tag: "URL и UX", want: "tag tag-indexing"},
		{tag: "on-page ux", want: "tag tag-onpage"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()

			if got := TagClass(tt.tag); got != tt.want {
				t.Errorf("TagClass(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestSeverityTables_CoverEverySeverity(t *testing.T) {
	t.Parallel()

	for _, s := range Severities {
		if _, ok := severityBadges[s]; !ok {
			t.Errorf("severityBadges missing %q", s)
		}
		if _, ok := severityLabels[s]; !ok {
			t.Errorf("severityLabels missing %q", s)
		}
	}
}

func TestSeverity_Rank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     int
	}{
		{severity: SeverityCritical, want: 0},
		{severity: SeverityHigh, want: 1},
		{severity: SeverityMedium, want: 2},
		{severity: SeverityLow, want: 3},
		{severity: "urgent", want: -1},
		{severity: "Critical", want: -1},
	}

	for _, tt := range tests {
		if got := tt.severity.Rank(); got != tt.want {
			t.Errorf("Severity(%q).Rank() = %d, want %d", tt.severity, got, tt.want)
		}
		if got := tt.severity.Valid(); got != (tt.want >= 0) {
			t.Errorf("Severity(%q).Valid() = %v", tt.severity, got)
		}
	}
}

func TestMetricClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		color MetricColor
		want  string
	}{
		{color: ColorRed, want: "red"},
		{color: ColorOrange, want: "orange"},
		{color: ColorYellow, want: "yellow"},
		{color: ColorBlue, want: "blue"},
		{color: ColorGreen, want: "green"},
		{color: "purple", want: "blue"},
		{color: "", want: "blue"},
		{color: "RED", want: "blue"},
	}

	for _, tt := range tests {
		if got := metricClass(tt.color); got != tt.want {
			t.Errorf("metricClass(%q) = %q, want %q", tt.color, got, tt.want)
		}
	}
}

func TestShortBlockLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{title: "Индексация и краулинг сайта", want: "Индексация и"},
		{title: "On-page оптимизация", want: "On-page оптимизация"},
		{title: "Скорость", want: "Скорость"},
		{title: "  много   пробелов  здесь ", want: "много пробелов"},
		{title: "", want: ""},
	}

	for _, tt := range tests {
		if got := shortBlockLabel(tt.title); got != tt.want {
			t.Errorf("shortBlockLabel(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
