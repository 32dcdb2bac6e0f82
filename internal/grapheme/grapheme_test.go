package grapheme

import "testing"

func TestSplit_MultiRuneGraphemes(t *testing.T) {
	text := "a" + "é" + "\U0001F468‍\U0001F469‍\U0001F467" + "b"
	got := Split(text)
	if len(got) != 4 {
		t.Fatalf("split len=%d, want %d", len(got), 4)
	}
	if got[1] != "é" {
		t.Fatalf("split[1]=%q, want %q", got[1], "é")
	}
	if Split("") != nil {
		t.Fatalf("split of empty text should be nil")
	}
}

func TestClusters_WidthAndRunes(t *testing.T) {
	cs := Clusters("a" + "é" + "世")
	if got, want := len(cs), 3; got != want {
		t.Fatalf("clusters=%d, want %d", got, want)
	}
	if got, want := cs[1].Runes, 2; got != want {
		t.Fatalf("runes=%d, want %d", got, want)
	}
	if got, want := cs[1].Width, 1; got != want {
		t.Fatalf("combining width=%d, want %d", got, want)
	}
	if got, want := cs[2].Width, 2; got != want {
		t.Fatalf("wide width=%d, want %d", got, want)
	}
	if got, want := StringWidth("ab世"), 4; got != want {
		t.Fatalf("string width=%d, want %d", got, want)
	}
}

func TestWidth_ZeroWidthIsOne(t *testing.T) {
	if got, want := Width("\u200b"), 1; got != want {
		t.Fatalf("width=%d, want %d", got, want)
	}
	if got, want := Width("\t"), 1; got != want {
		t.Fatalf("tab width=%d, want %d", got, want)
	}
}

func TestClassifiers(t *testing.T) {
	if !IsSpace("\t") {
		t.Fatalf("tab should be space")
	}
	if IsSpace("a") {
		t.Fatalf("letter should not be space")
	}
	if !IsPunct("!") {
		t.Fatalf("exclamation should be punct")
	}
	if IsPunct("a") {
		t.Fatalf("letter should not be punct")
	}
}
