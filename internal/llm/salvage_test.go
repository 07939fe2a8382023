package llm

import (
	"errors"
	"testing"
)

func TestParseModelJSON_Direct(t *testing.T) {
	v, err := ParseModelJSON(`{"vendor":"X","items":[{"name":"Tea"}]}`)
	if err != nil {
		t.Fatal(err)
	}

	obj, ok := v.(map[string]any)
	if !ok || obj["vendor"] != "X" {
		t.Fatalf("unexpected parse result: %v", v)
	}
}

func TestParseModelJSON_SalvagesEmbeddedObject(t *testing.T) {
	raw := "Here is the JSON: {\"vendor\":\"X\",\"items\":[{\"name\":\"Tea\"}]} thanks"

	v, err := ParseModelJSON(raw)
	if err != nil {
		t.Fatal(err)
	}

	obj, ok := v.(map[string]any)
	if !ok || obj["vendor"] != "X" {
		t.Fatalf("unexpected salvage result: %v", v)
	}

	items, ok := obj["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one item, got %v", obj["items"])
	}
}

func TestParseModelJSON_NoObjectAtAll(t *testing.T) {
	_, err := ParseModelJSON("the menu looks great, no data though")
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestParseModelJSON_BrokenEmbeddedObject(t *testing.T) {
	_, err := ParseModelJSON("prefix {not valid json} suffix")
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{`noise {"a":1} noise`, `{"a":1}`},
		{`{"a":{"b":2}} trailing`, `{"a":{"b":2}}`},
		{`no braces here`, ""},
		{`} reversed {`, ""},
	}

	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
