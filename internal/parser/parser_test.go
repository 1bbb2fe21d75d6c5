package parser

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"personagen/internal/types"
)

func TestParse_WellFormedArrayWithSurroundingProse(t *testing.T) {
	want := []types.ParsedRecord{
		{Title: "deploy.yaml", Category: "config", FileExtension: ".yaml", Content: "replicas: 3"},
		{Title: "main.py", Category: "code", FileExtension: ".py", Content: "print('hi')"},
	}
	payload, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	raw := "Sure! Here are the artifacts you asked for:\n" + string(payload) + "\nLet me know if you need more."

	got := Parse(raw, 2)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_TruncatesToExpectedCount(t *testing.T) {
	var objs []string
	for i := 0; i < 8; i++ {
		objs = append(objs, fmt.Sprintf(`{"title":"t%d","category":"code","file_extension":".py","content":"print(%d)"}`, i, i))
	}
	raw := "[" + strings.Join(objs, ",") + "]"

	got := Parse(raw, 3)
	if len(got) != 3 {
		t.Fatalf("Parse returned %d records, want 3", len(got))
	}
	if got[2].Title != "t2" {
		t.Errorf("records out of order: got[2].Title = %q", got[2].Title)
	}
}

func TestParse_NoArrayPresent(t *testing.T) {
	for _, raw := range []string{
		"",
		"I could not generate anything today.",
		"only an opening bracket [ here",
		"only a closing bracket ] here",
	} {
		if got := Parse(raw, 5); len(got) != 0 {
			t.Errorf("Parse(%q) = %d records, want 0", raw, len(got))
		}
	}
}

func TestParse_RepairsRawControlCharacters(t *testing.T) {
	// Literal newline and tab inside a string value: illegal JSON that
	// models emit constantly.
	raw := "[{\"title\":\"script.py\",\"category\":\"code\",\"file_extension\":\".py\",\"content\":\"line one\nline two\tend\"}]"

	got := Parse(raw, 1)
	if len(got) != 1 {
		t.Fatalf("Parse returned %d records, want 1", len(got))
	}
	if got[0].Content != "line one\nline two\tend" {
		t.Errorf("Content = %q, want raw newline and tab preserved", got[0].Content)
	}
}

func TestParse_NestedBracesInContent(t *testing.T) {
	// Braces inside the content string must not split the candidate.
	raw := `[{"title":"handler.go","category":"code","file_extension":".go","content":"func main() { if x { y() } }"},{"title":"b.py","category":"code","file_extension":".py","content":"print(2)"}]`

	got := Parse(raw, 5)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d records, want 2", len(got))
	}
	if !strings.Contains(got[0].Content, "{ if x { y() } }") {
		t.Errorf("first record content mangled: %q", got[0].Content)
	}
}

func TestParse_LooseFallbackOnBrokenObject(t *testing.T) {
	// Unquoted token after content makes the object unparseable even
	// after repair; the regexp tier should still recover the fields.
	raw := `[{"title":"notes.md","category":"docs","file_extension":".md","content":"first line\nsecond \"quoted\" word","trailing": oops}]`

	got := Parse(raw, 1)
	if len(got) != 1 {
		t.Fatalf("Parse returned %d records, want 1", len(got))
	}
	want := types.ParsedRecord{
		Title:         "notes.md",
		Category:      "docs",
		FileExtension: ".md",
		Content:       "first line\nsecond \"quoted\" word",
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("loose fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_LooseFallbackRequiresCoreFields(t *testing.T) {
	// Missing category: not salvageable.
	raw := `[{"title":"x.py","content":"print(1)", broken}]`
	if got := Parse(raw, 1); len(got) != 0 {
		t.Errorf("Parse salvaged a record without category: %+v", got)
	}
}

func TestParse_MixedGoodAndBadObjects(t *testing.T) {
	raw := `Here you go:
[
  {"title":"a.py","category":"code","file_extension":".py","content":"print(1)"},
  {"title":"bad.py","category":"code","content": not even close},
  {"title":"c.py","category":"code","file_extension":".py","content":"print(3)"}
]`
	got := Parse(raw, 5)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d records, want 2 salvaged", len(got))
	}
	if got[0].Title != "a.py" || got[1].Title != "c.py" {
		t.Errorf("unexpected titles: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestParse_AlreadyEscapedSequencesUntouched(t *testing.T) {
	raw := `[{"title":"a.py","category":"code","file_extension":".py","content":"line one\nline two"},{"title":"broken.py","category":"code","content":"x` + "\n" + `y"}]`

	got := Parse(raw, 2)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d records, want 2", len(got))
	}
	if got[0].Content != "line one\nline two" {
		t.Errorf("escaped newline not decoded: %q", got[0].Content)
	}
	if got[1].Content != "x\ny" {
		t.Errorf("raw newline not preserved: %q", got[1].Content)
	}
}

func TestExtractCandidates_IgnoresBracesInStrings(t *testing.T) {
	span := `[{"a":"}{"},{"b":"{"}]`
	got := extractCandidates(span)
	if len(got) != 2 {
		t.Fatalf("extractCandidates returned %d candidates, want 2: %v", len(got), got)
	}
	if got[0] != `{"a":"}{"}` {
		t.Errorf("first candidate = %q", got[0])
	}
}

func TestRepairControlChars(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"raw newline in string", "\"a\nb\"", `"a\nb"`},
		{"raw tab in string", "\"a\tb\"", `"a\tb"`},
		{"raw cr in string", "\"a\rb\"", `"a\rb"`},
		{"newline outside string kept", "{\n\"a\":1}", "{\n\"a\":1}"},
		{"escaped sequence untouched", `"a\nb"`, `"a\nb"`},
		{"escaped quote does not end string", "\"a\\\"\nb\"", "\"a\\\"\\nb\""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := repairControlChars(tc.in); got != tc.want {
				t.Errorf("repairControlChars(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
