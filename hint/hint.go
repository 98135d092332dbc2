// Package hint computes the feedback a word game gives for a guess against a
// solution, and packs it into a single base-3 integer.
package hint

import (
	"errors"
	"fmt"
	"strings"
)

// Class is the verdict for one letter of a guess.
type Class uint8

const (
	Exact   Class = iota // right letter, right position
	Present              // letter occurs elsewhere in the solution
	Absent               // letter not available in the solution
)

// MaxLength is the longest word a Hint can describe (3^10 fits in a uint16).
const MaxLength = 10

var (
	ErrInvalidLength = errors.New("invalid word length")
	ErrInvalidClass  = errors.New("invalid letter class")
)

// Pattern is the per-position feedback for a guess, in guess order.
type Pattern []Class

func (c Class) String() string {
	switch c {
	case Exact:
		return "exact"
	case Present:
		return "present"
	case Absent:
		return "absent"
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

func (c Class) tile() string {
	switch c {
	case Exact:
		return "🟩"
	case Present:
		return "🟨"
	}
	return "⬜"
}

// String renders the pattern as coloured tiles.
func (p Pattern) String() string {
	var sb strings.Builder
	for _, c := range p {
		sb.WriteString(c.tile())
	}
	return sb.String()
}

// ParsePattern reads a pattern written with g/y/b letters (also '.', '-', 'x'
// and 'w' for absent) or with the digits 0, 1 and 2.
func ParsePattern(s string) (Pattern, error) {
	if len(s) == 0 || len(s) > MaxLength {
		return nil, fmt.Errorf("pattern %q: %w", s, ErrInvalidLength)
	}
	p := make(Pattern, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'g', 'G', '0':
			p[i] = Exact
		case 'y', 'Y', '1':
			p[i] = Present
		case 'b', 'B', 'x', 'X', 'w', 'W', '.', '-', '2':
			p[i] = Absent
		default:
			return nil, fmt.Errorf("pattern %q position %d: %w", s, i, ErrInvalidClass)
		}
	}
	return p, nil
}

// Classify compares guess against solution. Exact matches are resolved first;
// the remaining solution letters then form a multiset that guess letters
// consume left to right, so a repeated guess letter is only marked Present as
// many times as it is still unaccounted for in the solution. Letters are
// bytes; callers pass ASCII words.
func Classify(guess, solution string) (Pattern, error) {
	if err := checkLengths(guess, solution); err != nil {
		return nil, err
	}
	p := make(Pattern, len(guess))
	classify(guess, solution, p)
	return p, nil
}

// Compute is Classify followed by Encode without allocating.
func Compute(guess, solution string) (Hint, error) {
	if err := checkLengths(guess, solution); err != nil {
		return 0, err
	}
	var buf [MaxLength]Class
	p := buf[:len(guess)]
	classify(guess, solution, p)

	var h Hint
	for _, c := range p {
		h = h*3 + Hint(c)
	}
	return h, nil
}

func checkLengths(guess, solution string) error {
	if len(guess) == 0 || len(guess) > MaxLength || len(guess) != len(solution) {
		return fmt.Errorf("guess %q (%d) vs solution %q (%d): %w",
			guess, len(guess), solution, len(solution), ErrInvalidLength)
	}
	return nil
}

// classify expects len(guess) == len(solution) == len(dst).
func classify(guess, solution string, dst []Class) {
	var remaining [256]uint8

	for i := 0; i < len(guess); i++ {
		if guess[i] == solution[i] {
			dst[i] = Exact
		} else {
			dst[i] = Absent
			remaining[solution[i]]++
		}
	}

	for i := 0; i < len(guess); i++ {
		if dst[i] == Exact {
			continue
		}
		if c := guess[i]; remaining[c] > 0 {
			remaining[c]--
			dst[i] = Present
		}
	}
}
