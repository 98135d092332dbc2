// Package table precomputes the hint for every (guess, solution) pair of two
// vocabularies and stores them in one flat array.
package table

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bent101/go-wordle-entropy/hint"
	"github.com/bent101/go-wordle-entropy/internal/par"
	"github.com/bent101/go-wordle-entropy/vocab"
	"github.com/charmbracelet/log"
)

var ErrKeyNotFound = errors.New("pair not in table")

// Table maps every (guess, solution) pair to its hint. The hint for guess
// index gi and solution index si lives at gi*solutions.Len() + si. A Table is
// never modified once Build or Load has returned it.
type Table struct {
	guesses   *vocab.Vocabulary
	solutions *vocab.Vocabulary
	hints     []hint.Hint
}

// Pair names one entry of the table.
type Pair struct {
	Guess    string
	Solution string
}

type Option func(*buildOptions)

type buildOptions struct {
	workers  int
	progress func()
}

// WithWorkers bounds the number of rows computed at once.
func WithWorkers(n int) Option {
	return func(o *buildOptions) { o.workers = n }
}

// WithProgress registers fn to be called after each guess row is done. It is
// called from several goroutines.
func WithProgress(fn func()) Option {
	return func(o *buildOptions) { o.progress = fn }
}

// Build computes the hint of every guess against every solution, one guess
// row per task.
func Build(ctx context.Context, guesses, solutions *vocab.Vocabulary, opts ...Option) (*Table, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	if guesses.Length() != solutions.Length() {
		return nil, fmt.Errorf("guesses have %d letters, solutions %d: %w",
			guesses.Length(), solutions.Length(), hint.ErrInvalidLength)
	}

	start := time.Now()
	t := &Table{
		guesses:   guesses,
		solutions: solutions,
		hints:     make([]hint.Hint, guesses.Len()*solutions.Len()),
	}

	err := par.ForEach(ctx, guesses.Len(), o.workers, func(gi int) error {
		guess := guesses.Word(gi)
		row := t.hints[gi*solutions.Len() : (gi+1)*solutions.Len()]
		for si := range row {
			h, err := hint.Compute(guess, solutions.Word(si))
			if err != nil {
				return err
			}
			row[si] = h
		}
		if o.progress != nil {
			o.progress()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("Built %d hints for %d guesses x %d solutions in %v",
		len(t.hints), guesses.Len(), solutions.Len(), time.Since(start))
	return t, nil
}

func (t *Table) Guesses() *vocab.Vocabulary   { return t.guesses }
func (t *Table) Solutions() *vocab.Vocabulary { return t.solutions }

// Len is the number of pairs in the table.
func (t *Table) Len() int { return len(t.hints) }

// Length is the number of letters per word.
func (t *Table) Length() int { return t.guesses.Length() }

// Lookup returns the hint for guess against solution.
func (t *Table) Lookup(guess, solution string) (hint.Hint, error) {
	gi, ok := t.guesses.Index(guess)
	if !ok {
		return 0, fmt.Errorf("%s: guess not built: %w", Key(guess, solution), ErrKeyNotFound)
	}
	si, ok := t.solutions.Index(solution)
	if !ok {
		return 0, fmt.Errorf("%s: solution not built: %w", Key(guess, solution), ErrKeyNotFound)
	}
	return t.At(gi, si), nil
}

func (t *Table) At(gi, si int) hint.Hint {
	return t.hints[gi*t.solutions.Len()+si]
}

// Row returns the hints of guess index gi against every solution. The slice
// aliases the table and must not be written to.
func (t *Table) Row(gi int) []hint.Hint {
	n := t.solutions.Len()
	return t.hints[gi*n : (gi+1)*n : (gi+1)*n]
}

// Fill writes the hints of guess against the given solution indices to dst.
func (t *Table) Fill(guess string, solutions []int, dst []hint.Hint) error {
	gi, ok := t.guesses.Index(guess)
	if !ok {
		return fmt.Errorf("guess %q: %w", guess, ErrKeyNotFound)
	}
	row := t.Row(gi)
	for k, si := range solutions {
		dst[k] = row[si]
	}
	return nil
}

// Search returns every pair whose hint is h, in table order.
func (t *Table) Search(h hint.Hint) []Pair {
	var out []Pair
	n := t.solutions.Len()
	for k, v := range t.hints {
		if v == h {
			out = append(out, Pair{Guess: t.guesses.Word(k / n), Solution: t.solutions.Word(k % n)})
		}
	}
	return out
}

// Histogram counts how many solutions produce each hint for guess.
func (t *Table) Histogram(guess string) (map[hint.Hint]int, error) {
	gi, ok := t.guesses.Index(guess)
	if !ok {
		return nil, fmt.Errorf("guess %q: %w", guess, ErrKeyNotFound)
	}
	counts := make(map[hint.Hint]int)
	for _, h := range t.Row(gi) {
		counts[h]++
	}
	return counts, nil
}

// Key is the canonical text key of a pair.
func Key(guess, solution string) string {
	return guess + vocab.Separator + solution
}

// SplitKey reverses Key.
func SplitKey(key string) (guess, solution string, err error) {
	guess, solution, ok := strings.Cut(key, vocab.Separator)
	if !ok || guess == "" || solution == "" || strings.Contains(solution, vocab.Separator) {
		return "", "", fmt.Errorf("malformed key %q", key)
	}
	return guess, solution, nil
}
