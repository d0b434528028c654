package classifier

import (
	"strings"
	"unicode/utf16"
)

// Tokenize turns text into a fixed-width vector of word lengths, counted in
// UTF-16 code units like the pipeline that trained the models. Words are
// split on single spaces, so consecutive spaces yield zero-length words. The
// vector is zero padded or truncated to width.
func Tokenize(text string, width int) []float64 {
	vec := make([]float64, width)
	for i, word := range strings.Split(text, " ") {
		if i >= width {
			break
		}
		vec[i] = float64(len(utf16.Encode([]rune(word))))
	}
	return vec
}
