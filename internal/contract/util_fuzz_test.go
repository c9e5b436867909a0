package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateLabel fuzzes TruncateLabel with random labels and widths.
func FuzzTruncateLabel(f *testing.F) {
	seeds := []struct {
		label string
		width int
	}{
		{"Aksesibilitas", 8},
		{"", 0},
		{"ruang terbuka hijau", 4},
		{"日本語のラベル", 5},
		{"abc", -1},
	}
	for _, seed := range seeds {
		f.Add(seed.label, seed.width)
	}

	f.Fuzz(func(t *testing.T, label string, width int) {
		out := TruncateLabel(label, width)
		n := utf8.RuneCountInString(label)
		if width > 3 && n > width && utf8.RuneCountInString(out) != width {
			t.Errorf("TruncateLabel(%q, %d) = %q, want %d runes", label, width, out, width)
		}
	})
}
