package lsp

import "testing"

// TestCalculateChangeEventsSingleLineReplace is scenario S6, first case:
// a single-character-class substitution within one line.
func TestCalculateChangeEventsSingleLineReplace(t *testing.T) {
	events := CalculateChangeEvents("foo\nbar", "fOO\nbar")
	if len(events) != 1 {
		t.Fatalf("expected 1 change event, got %d: %+v", len(events), events)
	}
	ev := events[0]
	if ev.Range == nil {
		t.Fatal("expected a non-nil range")
	}
	assertEqual(t, ev.Range.Start, Position{Line: 0, Character: 1}, "range.start")
	assertEqual(t, ev.Range.End, Position{Line: 0, Character: 3}, "range.end")
	if ev.Text != "OO" {
		t.Errorf("text = %q, want %q", ev.Text, "OO")
	}
	if ev.RangeLength == nil || *ev.RangeLength != 2 {
		t.Errorf("rangeLength = %v, want 2", ev.RangeLength)
	}
}

// TestCalculateChangeEventsSpansMultipleLines is scenario S6, second case:
// the replaced span crosses two newlines.
func TestCalculateChangeEventsSpansMultipleLines(t *testing.T) {
	events := CalculateChangeEvents("foo\nbar\nbaz", "foLOLz")
	if len(events) != 1 {
		t.Fatalf("expected 1 change event, got %d: %+v", len(events), events)
	}
	ev := events[0]
	if ev.Range == nil {
		t.Fatal("expected a non-nil range")
	}
	assertEqual(t, ev.Range.Start, Position{Line: 0, Character: 2}, "range.start")
	assertEqual(t, ev.Range.End, Position{Line: 2, Character: 2}, "range.end")
	if ev.Text != "LOL" {
		t.Errorf("text = %q, want %q", ev.Text, "LOL")
	}
}

func TestCalculateChangeEventsNoDiff(t *testing.T) {
	events := CalculateChangeEvents("same", "same")
	if len(events) != 0 {
		t.Fatalf("expected no change events for identical text, got %+v", events)
	}
}

func TestCalculateChangeEventsAppend(t *testing.T) {
	events := CalculateChangeEvents("abc", "abcdef")
	if len(events) != 1 {
		t.Fatalf("expected 1 change event, got %d: %+v", len(events), events)
	}
	ev := events[0]
	assertEqual(t, ev.Range.Start, Position{Line: 0, Character: 3}, "range.start")
	assertEqual(t, ev.Range.End, Position{Line: 0, Character: 3}, "range.end")
	if ev.Text != "def" {
		t.Errorf("text = %q, want %q", ev.Text, "def")
	}
}

func TestWholeDocumentChange(t *testing.T) {
	ev := WholeDocumentChange("new contents")
	if ev.Range != nil {
		t.Errorf("expected a nil range, got %+v", ev.Range)
	}
	if ev.RangeLength != nil {
		t.Errorf("expected a nil rangeLength, got %v", *ev.RangeLength)
	}
	if ev.Text != "new contents" {
		t.Errorf("text = %q, want %q", ev.Text, "new contents")
	}
}

func TestUnifiedPatchToTextEdits(t *testing.T) {
	patch := `diff --git a/foo.txt b/foo.txt
index 1234567..89abcde 100644
--- a/foo.txt
+++ b/foo.txt
@@ -1,3 +1,3 @@
 line one
-line two
+line TWO
 line three
`
	edits, err := UnifiedPatchToTextEdits(patch)
	if err != nil {
		t.Fatalf("UnifiedPatchToTextEdits: %v", err)
	}
	fileEdits, ok := edits["foo.txt"]
	if !ok || len(fileEdits) != 1 {
		t.Fatalf("edits = %+v, want exactly one edit for foo.txt", edits)
	}
	e := fileEdits[0]
	assertEqual(t, e.Range.Start, Position{Line: 0, Character: 0}, "hunk range.start")
	assertEqual(t, e.Range.End, Position{Line: 3, Character: 0}, "hunk range.end")
	want := "line one\nline TWO\nline three\n"
	if e.NewText != want {
		t.Errorf("newText = %q, want %q", e.NewText, want)
	}
}
