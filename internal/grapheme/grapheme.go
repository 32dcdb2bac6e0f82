package grapheme

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Cluster is one grapheme cluster with its terminal width and rune count.
type Cluster struct {
	Text  string
	Width int
	Runes int
}

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Clusters splits text like Split and measures every cluster. Zero-width
// clusters are given width 1 so that the caret can land on them.
func Clusters(text string) []Cluster {
	parts := Split(text)
	if len(parts) == 0 {
		return nil
	}
	out := make([]Cluster, len(parts))
	for i, p := range parts {
		out[i] = Cluster{Text: p, Width: Width(p), Runes: utf8.RuneCountInString(p)}
	}
	return out
}

// Width returns the terminal cell width of a single cluster, at least 1.
func Width(cluster string) int {
	if cluster == "\t" {
		return 1
	}
	w := uniseg.StringWidth(cluster)
	if w < 1 {
		return 1
	}
	return w
}

// StringWidth returns the terminal cell width of text.
func StringWidth(text string) int {
	w := 0
	for _, c := range Clusters(text) {
		w += c.Width
	}
	return w
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsPunct reports whether all runes in cluster are Unicode punctuation.
func IsPunct(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}
