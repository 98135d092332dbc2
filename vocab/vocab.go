// Package vocab interns word lists into dense indices and tracks subsets of
// them as bitsets.
package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/bent101/go-wordle-entropy/hint"
)

var (
	ErrEmpty         = errors.New("empty vocabulary")
	ErrDuplicateWord = errors.New("duplicate word")
	ErrUnknownWord   = errors.New("unknown word")
	ErrInvalidWord   = errors.New("invalid word")
)

// Separator joins words in table keys, so it may never appear inside one.
const Separator = ","

// Vocabulary is an ordered list of distinct words of equal length.
type Vocabulary struct {
	words  []string
	index  map[string]int
	length int
}

// New interns words in the order given. Words are ASCII so that every byte is
// one letter.
func New(words []string) (*Vocabulary, error) {
	if len(words) == 0 {
		return nil, ErrEmpty
	}

	v := &Vocabulary{
		words:  make([]string, len(words)),
		index:  make(map[string]int, len(words)),
		length: len(words[0]),
	}
	copy(v.words, words)

	for i, w := range v.words {
		if len(w) == 0 || len(w) > hint.MaxLength || len(w) != v.length {
			return nil, fmt.Errorf("word %d %q has length %d, want %d: %w", i, w, len(w), v.length, hint.ErrInvalidLength)
		}
		if strings.Contains(w, Separator) {
			return nil, fmt.Errorf("word %d %q contains %q: %w", i, w, Separator, ErrInvalidWord)
		}
		if !isASCII(w) {
			return nil, fmt.Errorf("word %d %q is not ASCII: %w", i, w, ErrInvalidWord)
		}
		if j, ok := v.index[w]; ok {
			return nil, fmt.Errorf("%q at %d and %d: %w", w, j, i, ErrDuplicateWord)
		}
		v.index[w] = i
	}
	return v, nil
}

func isASCII(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Load reads one word per line. Lines are trimmed and lower-cased, blank
// lines are skipped and repeated words keep their first position.
func Load(r io.Reader) (*Vocabulary, error) {
	var words []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(words)
}

// LoadFile is Load on the named file.
func LoadFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func (v *Vocabulary) Len() int { return len(v.words) }

// Length is the number of letters in every word.
func (v *Vocabulary) Length() int { return v.length }

func (v *Vocabulary) Word(i int) string { return v.words[i] }

func (v *Vocabulary) Index(word string) (int, bool) {
	i, ok := v.index[word]
	return i, ok
}

// Words returns a copy of the words in vocabulary order.
func (v *Vocabulary) Words() []string {
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}
