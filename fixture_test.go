package audit2pdf

import (
	"encoding/json"
	"testing"
)

// sampleReport returns a fully populated report. Numbers and texts are
// chosen so that no value accidentally occurs inside another.
func sampleReport() *Report {
	return &Report{
		ClientName:    "ООО Ромашка",
		Domain:        "romashka.example",
		Date:          "2024-05-01",
		Version:       "v2",
		TotalIssues:   17,
		CriticalCount: 3,
		StatusText:    "требует внимания",
		ExecSummaryParagraphs: []string{
			"Сайт технически здоров, но теряет трафик.",
			"Основные потери связаны с индексацией.",
		},
		Metrics: []Metric{
			{Value: "12.7s", Label: "LCP", Sub: "мобильные", Color: ColorRed},
			{Value: "94", Label: "Performance", Sub: "десктоп", Color: ColorGreen},
		},
		Blocks: []Block{
			{
				Number:      "I",
				Title:       "Индексация и краулинг сайта",
				Description: "Доступность страниц для поисковых роботов.",
				Gradient:    "linear-gradient(135deg, #1e3a8a, #3b82f6)",
				Issues: []Issue{
					{
						ID:       1,
						Title:    "Robots.txt закрывает каталог",
						Severity: SeverityCritical,
						Tags:     []string{"Критично", "Индексация"},
						Symptom:  "Директива **Disallow** закрывает раздел.",
						Impact:   "Товары не попадают в выдачу.",
					},
					{
						ID:       2,
						Title:    "Дубли страниц пагинации",
						Severity: SeverityMedium,
						Tags:     []string{"URL"},
						Symptom:  "Страницы ?page=1 доступны отдельно.",
						Impact:   "Размывается вес страниц.",
					},
				},
			},
			{
				Number:      "II",
				Title:       "On-page оптимизация",
				Description: "Мета-теги и заголовки.",
				Gradient:    "#7c3aed",
				Issues: []Issue{
					{
						ID:       3,
						Title:    "Пустые мета-описания",
						Severity: SeverityLow,
						Tags:     []string{},
						Symptom:  "",
						Impact:   "Ниже CTR в выдаче.",
					},
				},
			},
		},
		ConclusionParagraphs: []string{"Начните с блока I."},
	}
}

// sampleJSON encodes sampleReport the way a client would send it.
func sampleJSON(t *testing.T) []byte {
	t.Helper()

	data, err := json.Marshal(sampleReport())
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	return data
}

// sampleTree returns sampleReport as a mutable decoded JSON tree.
func sampleTree(t *testing.T) map[string]any {
	t.Helper()

	v, err := DecodeJSON(sampleJSON(t))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	return v.(map[string]any)
}

// firstIssue returns blocks[0].issues[0] of a decoded tree.
func firstIssue(tree map[string]any) map[string]any {
	blocks := tree["blocks"].([]any)
	issues := blocks[0].(map[string]any)["issues"].([]any)
	return issues[0].(map[string]any)
}
