package vocab

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Subset is a set of words drawn from one Vocabulary.
type Subset struct {
	vocab *Vocabulary
	bits  *bitset.BitSet
}

// NewSubset returns the subset of v holding words.
func NewSubset(v *Vocabulary, words ...string) (*Subset, error) {
	s := &Subset{vocab: v, bits: bitset.New(uint(v.Len()))}
	for _, w := range words {
		if err := s.Add(w); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Full returns the subset holding every word of v.
func Full(v *Vocabulary) *Subset {
	s := &Subset{vocab: v, bits: bitset.New(uint(v.Len()))}
	for i := 0; i < v.Len(); i++ {
		s.bits.Set(uint(i))
	}
	return s
}

func (s *Subset) Add(word string) error {
	i, ok := s.vocab.Index(word)
	if !ok {
		return fmt.Errorf("%q: %w", word, ErrUnknownWord)
	}
	s.bits.Set(uint(i))
	return nil
}

func (s *Subset) Contains(word string) bool {
	i, ok := s.vocab.Index(word)
	return ok && s.bits.Test(uint(i))
}

func (s *Subset) Len() int { return int(s.bits.Count()) }

// Vocabulary is the vocabulary the subset indexes into.
func (s *Subset) Vocabulary() *Vocabulary { return s.vocab }

// Indices returns the member indices in ascending order.
func (s *Subset) Indices() []int {
	out := make([]int, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// Words returns the members in vocabulary order.
func (s *Subset) Words() []string {
	idx := s.Indices()
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = s.vocab.Word(i)
	}
	return out
}

func (s *Subset) Clone() *Subset {
	return &Subset{vocab: s.vocab, bits: s.bits.Clone()}
}

// Filter returns the members for which keep reports true.
func (s *Subset) Filter(keep func(word string) bool) *Subset {
	out := &Subset{vocab: s.vocab, bits: bitset.New(uint(s.vocab.Len()))}
	for _, i := range s.Indices() {
		if keep(s.vocab.Word(i)) {
			out.bits.Set(uint(i))
		}
	}
	return out
}
