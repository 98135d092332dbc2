// Package api serves hint lookups and guess rankings over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/bent101/go-wordle-entropy/entropy"
	"github.com/bent101/go-wordle-entropy/hint"
	"github.com/bent101/go-wordle-entropy/table"
	"github.com/bent101/go-wordle-entropy/vocab"
	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

// PatternResponse describes the hint for one pair.
type PatternResponse struct {
	Guess    string    `json:"guess"`
	Solution string    `json:"solution"`
	Hint     hint.Hint `json:"hint"`
	Pattern  string    `json:"pattern"`
}

// RankRequest asks for guesses ranked over candidates. Empty Candidates means
// every solution; empty Guesses means every allowed guess.
type RankRequest struct {
	Candidates []string `json:"candidates"`
	Guesses    []string `json:"guesses"`
	Limit      int      `json:"limit,omitempty"`
}

type RankResponse struct {
	Candidates int              `json:"candidates"`
	Ranked     []entropy.Ranked `json:"ranked"`
	TimeTaken  int64            `json:"time_ms"`
}

// Bucket is the set of candidates sharing one hint.
type Bucket struct {
	Hint    hint.Hint `json:"hint"`
	Pattern string    `json:"pattern"`
	Words   []string  `json:"words"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

type Server struct {
	table  *table.Table
	ranker *entropy.Ranker
}

func NewServer(t *table.Table, r *entropy.Ranker) *Server {
	return &Server{table: t, ranker: r}
}

// Handler routes the API endpoints.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/pattern/{guess}/{solution}", s.handlePattern).Methods("GET")
	r.HandleFunc("/api/buckets/{guess}", s.handleBuckets).Methods("GET")
	r.HandleFunc("/api/rank", s.handleRank).Methods("POST")
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePattern(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	guess, solution := vars["guess"], vars["solution"]

	h, err := s.table.Lookup(guess, solution)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, PatternResponse{
		Guess:    guess,
		Solution: solution,
		Hint:     h,
		Pattern:  h.Pattern(s.table.Length()).String(),
	})
}

func (s *Server) handleBuckets(w http.ResponseWriter, r *http.Request) {
	guess := mux.Vars(r)["guess"]

	buckets, err := s.ranker.Buckets(guess, vocab.Full(s.ranker.Solutions()))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	out := make([]Bucket, 0, len(buckets))
	for h, words := range buckets {
		out = append(out, Bucket{Hint: h, Pattern: h.Pattern(s.table.Length()).String(), Words: words})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Words) != len(out[j].Words) {
			return len(out[i].Words) > len(out[j].Words)
		}
		return out[i].Hint < out[j].Hint
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	candidates := vocab.Full(s.ranker.Solutions())
	if len(req.Candidates) > 0 {
		var err error
		if candidates, err = vocab.NewSubset(s.ranker.Solutions(), req.Candidates...); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	guesses := req.Guesses
	if len(guesses) == 0 {
		guesses = s.table.Guesses().Words()
	}

	ranked, err := s.ranker.RankAll(r.Context(), guesses, candidates)
	if err != nil {
		status := statusFor(err)
		// Guesses come from the body, so a guess outside the table is a bad request.
		if errors.Is(err, table.ErrKeyNotFound) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}

	writeJSON(w, http.StatusOK, RankResponse{
		Candidates: candidates.Len(),
		Ranked:     ranked,
		TimeTaken:  time.Since(start).Milliseconds(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, table.ErrKeyNotFound):
		return http.StatusNotFound
	case errors.Is(err, entropy.ErrEmptyCandidateSet),
		errors.Is(err, vocab.ErrUnknownWord),
		errors.Is(err, hint.ErrInvalidLength):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Status: status})
}
