package hint

import (
	"errors"
	"fmt"
	"strings"
)

// Hint is a Pattern packed as a base-3 number, most significant digit first,
// with each Class used as its own digit.
type Hint uint16

var ErrOutOfRange = errors.New("hint out of range")

// Count returns the number of distinct hints for words of the given length.
func Count(length int) int {
	n := 1
	for range length {
		n *= 3
	}
	return n
}

// Encode packs p into a Hint.
func Encode(p Pattern) (Hint, error) {
	if len(p) == 0 || len(p) > MaxLength {
		return 0, fmt.Errorf("pattern of length %d: %w", len(p), ErrInvalidLength)
	}
	var h Hint
	for i, c := range p {
		if c > Absent {
			return 0, fmt.Errorf("position %d: %w", i, ErrInvalidClass)
		}
		h = h*3 + Hint(c)
	}
	return h, nil
}

// Decode unpacks h into a Pattern of the given length.
func Decode(h Hint, length int) (Pattern, error) {
	if length <= 0 || length > MaxLength {
		return nil, fmt.Errorf("length %d: %w", length, ErrInvalidLength)
	}
	if int(h) >= Count(length) {
		return nil, fmt.Errorf("%d for length %d: %w", h, length, ErrOutOfRange)
	}

	digits := make(Pattern, 0, length)
	for v := h; v > 0; v /= 3 {
		digits = append(digits, Class(v%3))
	}
	p := make(Pattern, length)
	for i, d := range digits {
		p[length-1-i] = d
	}
	// Leading positions stay at the zero digit.
	return p, nil
}

// Pattern is Decode for callers that already know h is in range.
func (h Hint) Pattern(length int) Pattern {
	p, err := Decode(h, length)
	if err != nil {
		panic(err)
	}
	return p
}

// Colored renders word with a background colour per letter according to h.
func (h Hint) Colored(word string) string {
	p, err := Decode(h, len(word))
	if err != nil {
		return word
	}

	const (
		reset    = "\033[0m"
		grayBg   = "\033[48;5;236m\033[38;5;255m"
		yellowBg = "\033[43m\033[30m"
		greenBg  = "\033[42m\033[30m"
	)

	var sb strings.Builder
	for i := 0; i < len(word); i++ {
		switch p[i] {
		case Exact:
			sb.WriteString(greenBg)
		case Present:
			sb.WriteString(yellowBg)
		default:
			sb.WriteString(grayBg)
		}
		sb.WriteByte(word[i])
		sb.WriteString(" ")
		sb.WriteString(reset)
	}
	return sb.String()
}
