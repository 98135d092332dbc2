// Package entropy ranks guesses by the Shannon entropy, in bits, of the hints
// they produce over a set of still-possible solutions.
package entropy

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/bent101/go-wordle-entropy/hint"
	"github.com/bent101/go-wordle-entropy/internal/par"
	"github.com/bent101/go-wordle-entropy/vocab"
)

var (
	ErrEmptyCandidateSet = errors.New("empty candidate set")
	ErrForeignSubset     = errors.New("candidates are not drawn from the solution vocabulary")
	ErrNoGuesses         = errors.New("no guesses to rank")
)

// Source supplies hints of a guess against solution indices.
type Source interface {
	Solutions() *vocab.Vocabulary
	Fill(guess string, solutions []int, dst []hint.Hint) error
}

type direct struct {
	solutions *vocab.Vocabulary
}

// Direct is a Source that classifies every pair on demand instead of reading
// a precomputed table.
func Direct(solutions *vocab.Vocabulary) Source {
	return direct{solutions: solutions}
}

func (d direct) Solutions() *vocab.Vocabulary { return d.solutions }

func (d direct) Fill(guess string, solutions []int, dst []hint.Hint) error {
	for k, si := range solutions {
		h, err := hint.Compute(guess, d.solutions.Word(si))
		if err != nil {
			return err
		}
		dst[k] = h
	}
	return nil
}

// Ranked is a guess with its entropy over some candidate set.
type Ranked struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

type Ranker struct {
	src     Source
	workers int
}

type Option func(*Ranker)

// WithWorkers bounds the number of guesses scored at once.
func WithWorkers(n int) Option {
	return func(r *Ranker) { r.workers = n }
}

func New(src Source, opts ...Option) *Ranker {
	r := &Ranker{src: src}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Solutions is the vocabulary candidate subsets must be drawn from.
func (r *Ranker) Solutions() *vocab.Vocabulary { return r.src.Solutions() }

// Score returns the entropy of the hints guess produces over candidates.
func (r *Ranker) Score(guess string, candidates *vocab.Subset) (float64, error) {
	idx, err := r.indices(candidates)
	if err != nil {
		return 0, err
	}
	return r.score(guess, idx, newScratch(idx, r.length()))
}

// RankAll scores every guess and orders them by descending entropy. Equal
// scores keep the order of guesses.
func (r *Ranker) RankAll(ctx context.Context, guesses []string, candidates *vocab.Subset) ([]Ranked, error) {
	out, err := r.scoreAll(ctx, guesses, candidates)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b Ranked) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out, nil
}

// Best returns the highest scoring guess, the earliest one on ties.
func (r *Ranker) Best(ctx context.Context, guesses []string, candidates *vocab.Subset) (Ranked, error) {
	if len(guesses) == 0 {
		return Ranked{}, ErrNoGuesses
	}
	out, err := r.scoreAll(ctx, guesses, candidates)
	if err != nil {
		return Ranked{}, err
	}
	return out[par.ArgMax(out, func(rk Ranked) float64 { return rk.Score })], nil
}

// Buckets groups candidates by the hint guess produces against them.
func (r *Ranker) Buckets(guess string, candidates *vocab.Subset) (map[hint.Hint][]string, error) {
	idx, err := r.indices(candidates)
	if err != nil {
		return nil, err
	}
	hints := make([]hint.Hint, len(idx))
	if err := r.src.Fill(guess, idx, hints); err != nil {
		return nil, err
	}

	out := make(map[hint.Hint][]string)
	solutions := r.src.Solutions()
	for k, h := range hints {
		out[h] = append(out[h], solutions.Word(idx[k]))
	}
	return out, nil
}

// ExpectedRemaining is the mean number of candidates left after guessing
// guess, with the solution drawn uniformly from candidates.
func (r *Ranker) ExpectedRemaining(guess string, candidates *vocab.Subset) (float64, error) {
	idx, err := r.indices(candidates)
	if err != nil {
		return 0, err
	}
	sc := newScratch(idx, r.length())
	if err := r.tally(guess, idx, sc); err != nil {
		return 0, err
	}
	var sum float64
	for _, c := range sc.counts {
		sum += float64(c) * float64(c)
	}
	return sum / float64(len(idx)), nil
}

func (r *Ranker) scoreAll(ctx context.Context, guesses []string, candidates *vocab.Subset) ([]Ranked, error) {
	idx, err := r.indices(candidates)
	if err != nil {
		return nil, err
	}

	out := make([]Ranked, len(guesses))
	length := r.length()
	scratches := &sync.Pool{New: func() any { return newScratch(idx, length) }}
	err = par.ForEach(ctx, len(guesses), r.workers, func(i int) error {
		sc := scratches.Get().(*scratch)
		defer scratches.Put(sc)
		s, err := r.score(guesses[i], idx, sc)
		if err != nil {
			return err
		}
		out[i] = Ranked{Word: guesses[i], Score: s}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Ranker) length() int { return r.src.Solutions().Length() }

func (r *Ranker) indices(candidates *vocab.Subset) ([]int, error) {
	if candidates == nil {
		return nil, ErrEmptyCandidateSet
	}
	if candidates.Vocabulary() != r.src.Solutions() {
		return nil, ErrForeignSubset
	}
	idx := candidates.Indices()
	if len(idx) == 0 {
		return nil, ErrEmptyCandidateSet
	}
	return idx, nil
}

// scratch is sized for one candidate set and is reused across guesses.
type scratch struct {
	hints  []hint.Hint
	counts []int
}

func newScratch(idx []int, length int) *scratch {
	return &scratch{
		hints:  make([]hint.Hint, len(idx)),
		counts: make([]int, hint.Count(length)),
	}
}

func (r *Ranker) tally(guess string, idx []int, sc *scratch) error {
	if err := r.src.Fill(guess, idx, sc.hints); err != nil {
		return fmt.Errorf("guess %q: %w", guess, err)
	}
	clear(sc.counts)
	for _, h := range sc.hints {
		sc.counts[h]++
	}
	return nil
}

func (r *Ranker) score(guess string, idx []int, sc *scratch) (float64, error) {
	if err := r.tally(guess, idx, sc); err != nil {
		return 0, err
	}
	return Shannon(sc.counts, len(idx)), nil
}

// Shannon returns the entropy in bits of a distribution given as bucket
// counts summing to total. It uses log2(N) - Σ c·log2(c)/N, which equals
// Σ -p·log2(p) and is exact when every bucket holds one item.
func Shannon(counts []int, total int) float64 {
	if total <= 0 {
		return 0
	}
	var sum float64
	for _, c := range counts {
		switch {
		case c == 0:
			continue
		case c == total:
			return 0
		}
		sum += float64(c) * math.Log2(float64(c))
	}
	n := float64(total)
	return max(0, math.Log2(n)-sum/n)
}
