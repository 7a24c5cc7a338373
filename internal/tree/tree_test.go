package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, "x", Lookup(map[string]any{}, "x", "a", "b"))
	assert.Equal(t, "y", Lookup(map[string]any{"a": map[string]any{"b": "y"}}, "", "a", "b"))
	assert.Equal(t, "x", Lookup(map[string]any{"a": "not-a-mapping"}, "x", "a", "b"))
	assert.Equal(t, "x", Lookup(nil, "x", "a"))
	assert.Equal(t, "x", Lookup([]any{"a"}, "x", "a"))

	root := map[string]any{"a": 1.0}
	assert.Equal(t, root, Lookup(root, "x"))
}

func TestLookupKeepsExplicitNull(t *testing.T) {
	got := Lookup(map[string]any{"due_date": nil}, "x", "due_date")
	assert.Nil(t, got)
}

func TestString(t *testing.T) {
	var doc any
	if err := json.Unmarshal([]byte(`{
		"project": {"id": 7, "name": "Firmware"},
		"due_date": null,
		"done_ratio": 40,
		"closed": false,
		"status": "Open"
	}`), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cases := []struct {
		keys []string
		want string
	}{
		{[]string{"project", "name"}, "Firmware"},
		{[]string{"project", "missing"}, ""},
		{[]string{"status", "name"}, ""},
		{[]string{"due_date"}, ""},
		{[]string{"done_ratio"}, "40"},
		{[]string{"closed"}, "false"},
		{[]string{"project"}, ""},
	}
	for _, tc := range cases {
		if got := String(doc, "", tc.keys...); got != tc.want {
			t.Fatalf("String(%v) = %q, want %q", tc.keys, got, tc.want)
		}
	}
}

func TestFloatAndInt64(t *testing.T) {
	doc := map[string]any{
		"hours":  1.25,
		"text":   "abc",
		"id":     42.0,
		"str_id": "17",
		"num":    json.Number("3.5"),
	}
	assert.Equal(t, 1.25, Float(doc, 0, "hours"))
	assert.Equal(t, 0.0, Float(doc, 0, "text"))
	assert.Equal(t, 0.0, Float(doc, 0, "missing"))
	assert.Equal(t, 3.5, Float(doc, 0, "num"))
	assert.Equal(t, int64(42), Int64(doc, 0, "id"))
	assert.Equal(t, int64(17), Int64(doc, 0, "str_id"))
	assert.Equal(t, int64(0), Int64(doc, 0, "text"))
}

func TestList(t *testing.T) {
	doc := map[string]any{"issues": []any{1.0, 2.0}, "bad": "x"}
	assert.Len(t, List(doc, "issues"), 2)
	assert.Nil(t, List(doc, "bad"))
	assert.Nil(t, List(doc, "missing"))
}
