package audit2pdf

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// rootPath addresses the document itself in a FieldError.
const rootPath = "root"

// maxSafeInteger bounds integer fields to values exactly representable by
// JSON producers that use IEEE 754 doubles.
const maxSafeInteger = 1<<53 - 1

// Validate checks a decoded JSON tree (as returned by DecodeJSON) against
// the report schema and builds a Report. Every violation is collected; on
// failure the error is a *ValidationError listing them in schema order.
// Values are never coerced: "1" is not a number and 1.5 is not an integer.
// Unknown keys are ignored.
func Validate(data any) (*Report, error) {
	v := &validator{}
	r := v.report(data)
	if len(v.errs) > 0 {
		return nil, &ValidationError{Details: v.errs}
	}
	return r, nil
}

// validator accumulates field errors during one walk.
type validator struct {
	errs []FieldError
}

func (v *validator) fail(path, format string, args ...any) {
	if path == "" {
		path = rootPath
	}
	v.errs = append(v.errs, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) report(data any) *Report {
	m, ok := v.object("", data)
	if !ok {
		return nil
	}

	r := &Report{
		ClientName:    v.str(m, "", "clientName", true),
		Domain:        v.str(m, "", "domain", true),
		Date:          v.str(m, "", "date", true),
		Version:       v.str(m, "", "version", true),
		TotalIssues:   v.integer(m, "", "totalIssues", 0),
		CriticalCount: v.integer(m, "", "criticalCount", 0),
		StatusText:    v.str(m, "", "statusText", false),
	}
	r.ExecSummaryParagraphs = v.stringList(m, "", "execSummaryParagraphs")

	metrics := v.array(m, "", "metrics")
	r.Metrics = make([]Metric, 0, len(metrics))
	for i, item := range metrics {
		if mm, ok := v.object(index("metrics", i), item); ok {
			r.Metrics = append(r.Metrics, v.metric(mm, index("metrics", i)))
		}
	}
	blocks := v.array(m, "", "blocks")
	r.Blocks = make([]Block, 0, len(blocks))
	for i, item := range blocks {
		if bm, ok := v.object(index("blocks", i), item); ok {
			r.Blocks = append(r.Blocks, v.block(bm, index("blocks", i)))
		}
	}

	if raw, present := m["summaryRows"]; present {
		rows, ok := v.asArray("summaryRows", raw)
		if ok {
			r.SummaryRows = make([]SummaryRow, 0, len(rows))
			for i, item := range rows {
				if rm, ok := v.object(index("summaryRows", i), item); ok {
					r.SummaryRows = append(r.SummaryRows, v.summaryRow(rm, index("summaryRows", i)))
				}
			}
		}
	}

	r.ConclusionParagraphs = v.stringList(m, "", "conclusionParagraphs")
	return r
}

func (v *validator) metric(m map[string]any, path string) Metric {
	return Metric{
		Value: v.str(m, path, "value", false),
		Label: v.str(m, path, "label", false),
		Sub:   v.str(m, path, "sub", false),
		Color: enumField(v, m, path, "color", MetricColors),
	}
}

func (v *validator) block(m map[string]any, path string) Block {
	b := Block{
		Number:      enumField(v, m, path, "number", BlockNumbers),
		Title:       v.str(m, path, "title", true),
		Description: v.str(m, path, "description", false),
		Gradient:    v.str(m, path, "gradient", false),
	}
	issuesPath := join(path, "issues")
	issues := v.array(m, path, "issues")
	b.Issues = make([]Issue, 0, len(issues))
	for i, item := range issues {
		if im, ok := v.object(index(issuesPath, i), item); ok {
			b.Issues = append(b.Issues, v.issue(im, index(issuesPath, i)))
		}
	}
	return b
}

func (v *validator) issue(m map[string]any, path string) Issue {
	return Issue{
		ID:       v.integer(m, path, "id", 1),
		Title:    v.str(m, path, "title", true),
		Severity: enumField(v, m, path, "severity", Severities),
		Tags:     v.stringList(m, path, "tags"),
		Symptom:  v.str(m, path, "symptom", false),
		Impact:   v.str(m, path, "impact", false),
	}
}

func (v *validator) summaryRow(m map[string]any, path string) SummaryRow {
	return SummaryRow{
		ID:         v.integer(m, path, "id", 1),
		ShortTitle: v.str(m, path, "shortTitle", false),
		Block:      v.str(m, path, "block", false),
		Severity:   enumField(v, m, path, "severity", Severities),
	}
}

// object asserts that value is a JSON object.
func (v *validator) object(path string, value any) (map[string]any, bool) {
	m, ok := value.(map[string]any)
	if !ok {
		v.fail(path, "Expected object, received %s", kindOf(value))
	}
	return m, ok
}

// lookup returns the member key of m, recording "Required" when absent.
func (v *validator) lookup(m map[string]any, parent, key string) (any, bool) {
	value, ok := m[key]
	if !ok {
		v.fail(join(parent, key), "Required")
	}
	return value, ok
}

func (v *validator) str(m map[string]any, parent, key string, nonEmpty bool) string {
	value, ok := v.lookup(m, parent, key)
	if !ok {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		v.fail(join(parent, key), "Expected string, received %s", kindOf(value))
		return ""
	}
	if nonEmpty && s == "" {
		v.fail(join(parent, key), "String must contain at least 1 character(s)")
	}
	return s
}

func (v *validator) integer(m map[string]any, parent, key string, minimum int) int {
	path := join(parent, key)
	value, ok := v.lookup(m, parent, key)
	if !ok {
		return 0
	}
	num, ok := value.(json.Number)
	if !ok {
		v.fail(path, "Expected number, received %s", kindOf(value))
		return 0
	}

	n, err := num.Int64()
	if err != nil {
		f, ferr := num.Float64()
		if ferr == nil && f != math.Trunc(f) {
			v.fail(path, "Expected integer, received float")
			return 0
		}
		if ferr != nil || math.Abs(f) > maxSafeInteger {
			if strings.HasPrefix(num.String(), "-") {
				v.fail(path, "Number must be greater than or equal to %d", minimum)
			} else {
				v.fail(path, "Number must be less than or equal to %d", int64(maxSafeInteger))
			}
			return 0
		}
		n = int64(f)
	}
	if n > maxSafeInteger {
		v.fail(path, "Number must be less than or equal to %d", int64(maxSafeInteger))
		return 0
	}
	if n < int64(minimum) {
		v.fail(path, "Number must be greater than or equal to %d", minimum)
	}
	return int(n)
}

func (v *validator) array(m map[string]any, parent, key string) []any {
	value, ok := v.lookup(m, parent, key)
	if !ok {
		return nil
	}
	items, _ := v.asArray(join(parent, key), value)
	return items
}

func (v *validator) asArray(path string, value any) ([]any, bool) {
	items, ok := value.([]any)
	if !ok {
		v.fail(path, "Expected array, received %s", kindOf(value))
	}
	return items, ok
}

// stringList validates an array of strings. The result is never nil for a
// present array so that validated values compare equal to their input.
func (v *validator) stringList(m map[string]any, parent, key string) []string {
	path := join(parent, key)
	value, ok := v.lookup(m, parent, key)
	if !ok {
		return nil
	}
	items, ok := v.asArray(path, value)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			v.fail(index(path, i), "Expected string, received %s", kindOf(item))
			continue
		}
		out = append(out, s)
	}
	return out
}

// enumField validates a closed string set, matching case-sensitively.
func enumField[T ~string](v *validator, m map[string]any, parent, key string, allowed []T) T {
	path := join(parent, key)
	value, ok := v.lookup(m, parent, key)
	if !ok {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		v.fail(path, "Expected %s, received %s", quoteAll(allowed), kindOf(value))
		return ""
	}
	for _, a := range allowed {
		if string(a) == s {
			return a
		}
	}
	v.fail(path, "Invalid enum value. Expected %s, received '%s'", quoteAll(allowed), s)
	return ""
}

func quoteAll[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, s := range values {
		parts[i] = "'" + string(s) + "'"
	}
	return strings.Join(parts, " | ")
}

// kindOf names the JSON type of a decoded value.
func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func index(parent string, i int) string {
	return join(parent, strconv.Itoa(i))
}
