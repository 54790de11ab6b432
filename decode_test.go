package audit2pdf

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "object", input: `{"a":1}`},
		{name: "surrounding whitespace", input: "  \n{\"a\":1}\n\t"},
		{name: "array", input: `[1,2]`},
		{name: "null", input: `null`},
		{name: "empty body", input: ``, wantErr: true},
		{name: "truncated", input: `{"a":`, wantErr: true},
		{name: "not json", input: `clientName=x`, wantErr: true},
		{name: "trailing value", input: `{"a":1}{"b":2}`, wantErr: true},
		{name: "trailing garbage", input: `{"a":1} x`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeJSON([]byte(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidJSON) {
					t.Errorf("DecodeJSON(%q) error = %v, want ErrInvalidJSON", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("DecodeJSON(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestDecodeJSON_KeepsNumbersExact(t *testing.T) {
	t.Parallel()

	v, err := DecodeJSON([]byte(`{"n":1.0,"big":9007199254740993}`))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	m := v.(map[string]any)

	if got, ok := m["n"].(json.Number); !ok || got.String() != "1.0" {
		t.Errorf("n = %#v, want json.Number(\"1.0\")", m["n"])
	}
	if got, ok := m["big"].(json.Number); !ok || got.String() != "9007199254740993" {
		t.Errorf("big = %#v, want exact json.Number", m["big"])
	}
}
