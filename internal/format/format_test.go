package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Count   int      `json:"count"`
	Members []string `json:"members"`
}

func TestWriteEDN_KeywordsSortedAndInts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteEDN(&buf, sample{ID: "p1", Name: "Launch", Count: 2, Members: []string{"a", "b"}}, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := `{:_id "p1" :count 2 :members ["a" "b"] :name "Launch"}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestWriteEDN_PrettyNests(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"a": []any{1, 2}, "b": map[string]any{}}, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "{\n  :a [\n    1\n    2\n  ]\n  :b {}\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestWriteText_ListOfObjects(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	in := []sample{{ID: "p1", Name: "Launch"}, {ID: "p2"}}
	if err := WriteText(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "name     Launch") {
		t.Fatalf("expected aligned name row; got:\n%s", out)
	}
	if strings.Count(out, "_id") != 2 || !strings.Contains(out, "\n\n") {
		t.Fatalf("expected two blocks; got:\n%s", out)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "yaml", false); err == nil {
		t.Fatalf("expected error")
	}
}
