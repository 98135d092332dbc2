package table

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bent101/go-wordle-entropy/hint"
	"github.com/bent101/go-wordle-entropy/vocab"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrPersistence wraps every failure to write or restore a table.
var ErrPersistence = errors.New("table persistence")

// FormatVersion is bumped whenever a stored layout changes.
const FormatVersion = 1

type Format int

const (
	FormatUnknown Format = iota
	FormatJSON           // keyed "guess,solution" map, human-readable
	FormatGob            // flat hints array
	FormatMsgpack        // flat hints array
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatGob:
		return "gob"
	case FormatMsgpack:
		return "msgpack"
	}
	return "unknown"
}

// ParseFormat accepts the names returned by Format.String.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "gob":
		return FormatGob, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	}
	return FormatUnknown, fmt.Errorf("unknown table format %q", name)
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return FormatUnknown, fmt.Errorf("no extension on %q", path)
	}
	return ParseFormat(ext)
}

// Metadata describes a stored table.
type Metadata struct {
	Version       int `json:"version" msgpack:"version"`
	WordLength    int `json:"word_length" msgpack:"word_length"`
	GuessCount    int `json:"guess_count" msgpack:"guess_count"`
	SolutionCount int `json:"solution_count" msgpack:"solution_count"`
	PairCount     int `json:"pair_count" msgpack:"pair_count"`
}

type keyedDocument struct {
	Metadata  Metadata             `json:"metadata"`
	Guesses   []string             `json:"guesses"`
	Solutions []string             `json:"solutions"`
	Patterns  map[string]hint.Hint `json:"patterns"`
}

type arenaDocument struct {
	Metadata  Metadata    `msgpack:"metadata"`
	Guesses   []string    `msgpack:"guesses"`
	Solutions []string    `msgpack:"solutions"`
	Hints     []hint.Hint `msgpack:"hints"`
}

func (t *Table) metadata() Metadata {
	return Metadata{
		Version:       FormatVersion,
		WordLength:    t.Length(),
		GuessCount:    t.guesses.Len(),
		SolutionCount: t.solutions.Len(),
		PairCount:     len(t.hints),
	}
}

// Save writes the table to w.
func (t *Table) Save(w io.Writer, format Format) error {
	var err error
	switch format {
	case FormatJSON:
		doc := keyedDocument{
			Metadata:  t.metadata(),
			Guesses:   t.guesses.Words(),
			Solutions: t.solutions.Words(),
			Patterns:  make(map[string]hint.Hint, len(t.hints)),
		}
		n := t.solutions.Len()
		for k, h := range t.hints {
			doc.Patterns[Key(t.guesses.Word(k/n), t.solutions.Word(k%n))] = h
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatGob:
		err = gob.NewEncoder(w).Encode(t.arena())
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(t.arena())
	default:
		err = fmt.Errorf("unknown format %v", format)
	}
	if err != nil {
		return fmt.Errorf("%w: encode %v: %w", ErrPersistence, format, err)
	}
	return nil
}

func (t *Table) arena() arenaDocument {
	return arenaDocument{
		Metadata:  t.metadata(),
		Guesses:   t.guesses.Words(),
		Solutions: t.solutions.Words(),
		Hints:     t.hints,
	}
}

// Load restores a table written by Save, checking that it is complete.
func Load(r io.Reader, format Format) (*Table, error) {
	t, err := load(r, format)
	if err != nil {
		return nil, fmt.Errorf("%w: load %v: %w", ErrPersistence, format, err)
	}
	return t, nil
}

func load(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatJSON:
		var doc keyedDocument
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
		t, err := restore(doc.Metadata, doc.Guesses, doc.Solutions)
		if err != nil {
			return nil, err
		}
		if len(doc.Patterns) != len(t.hints) {
			return nil, fmt.Errorf("%d patterns for %d pairs", len(doc.Patterns), len(t.hints))
		}
		// Distinct keys resolve to distinct cells, so a full count means every
		// cell was written exactly once.
		for key, h := range doc.Patterns {
			guess, solution, err := SplitKey(key)
			if err != nil {
				return nil, err
			}
			gi, ok := t.guesses.Index(guess)
			if !ok {
				return nil, fmt.Errorf("key %q: unknown guess", key)
			}
			si, ok := t.solutions.Index(solution)
			if !ok {
				return nil, fmt.Errorf("key %q: unknown solution", key)
			}
			t.hints[gi*t.solutions.Len()+si] = h
		}
		return t, t.checkCodes()

	case FormatGob, FormatMsgpack:
		var doc arenaDocument
		var err error
		if format == FormatGob {
			err = gob.NewDecoder(r).Decode(&doc)
		} else {
			err = msgpack.NewDecoder(r).Decode(&doc)
		}
		if err != nil {
			return nil, err
		}
		t, err := restore(doc.Metadata, doc.Guesses, doc.Solutions)
		if err != nil {
			return nil, err
		}
		if len(doc.Hints) != len(t.hints) {
			return nil, fmt.Errorf("%d hints for %d pairs", len(doc.Hints), len(t.hints))
		}
		copy(t.hints, doc.Hints)
		return t, t.checkCodes()
	}
	return nil, fmt.Errorf("unknown format %v", format)
}

func restore(md Metadata, guesses, solutions []string) (*Table, error) {
	if md.Version != FormatVersion {
		return nil, fmt.Errorf("version %d, want %d", md.Version, FormatVersion)
	}
	gv, err := vocab.New(guesses)
	if err != nil {
		return nil, fmt.Errorf("guesses: %w", err)
	}
	sv, err := vocab.New(solutions)
	if err != nil {
		return nil, fmt.Errorf("solutions: %w", err)
	}
	if gv.Length() != sv.Length() {
		return nil, fmt.Errorf("guesses have %d letters, solutions %d: %w", gv.Length(), sv.Length(), hint.ErrInvalidLength)
	}
	t := &Table{
		guesses:   gv,
		solutions: sv,
		hints:     make([]hint.Hint, gv.Len()*sv.Len()),
	}
	if got := t.metadata(); got != md {
		return nil, fmt.Errorf("metadata %+v does not match contents %+v", md, got)
	}
	return t, nil
}

func (t *Table) checkCodes() error {
	limit := hint.Count(t.Length())
	for k, h := range t.hints {
		if int(h) >= limit {
			return fmt.Errorf("hint %d at %d: %w", h, k, hint.ErrOutOfRange)
		}
	}
	return nil
}

// SaveFile writes the table to path in the format its extension names. The
// file is replaced only once the whole table has been written.
func (t *Table) SaveFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	start := time.Now()
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer os.Remove(tmp)

	w := bufio.NewWriter(file)
	if err := t.Save(w, format); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.Debugf("Saved table to %s in %v", path, time.Since(start))
	return nil
}

// LoadFile reads a table written by SaveFile.
func LoadFile(path string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	start := time.Now()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer file.Close()

	t, err := Load(bufio.NewReader(file), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debugf("Loaded table with %d entries from %s in %v", t.Len(), path, time.Since(start))
	return t, nil
}
