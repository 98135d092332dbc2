package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bent101/go-wordle-entropy/entropy"
	"github.com/bent101/go-wordle-entropy/table"
	"github.com/bent101/go-wordle-entropy/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	guesses, err := vocab.New([]string{"crane", "speed", "allee", "abcde", "edcba"})
	require.NoError(t, err)
	solutions, err := vocab.New([]string{"erase", "label", "abcde", "edcba"})
	require.NoError(t, err)
	tbl, err := table.Build(context.Background(), guesses, solutions)
	require.NoError(t, err)
	return NewServer(tbl, entropy.New(tbl)).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), "GET", "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPattern(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, "GET", "/api/pattern/speed/erase", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp PatternResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "speed", resp.Guess)
	assert.EqualValues(t, 149, resp.Hint)
	assert.Equal(t, "🟨⬜🟨🟨⬜", resp.Pattern)

	rec = do(t, h, "GET", "/api/pattern/speed/crane", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, http.StatusNotFound, errResp.Status)
}

func TestBuckets(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, "GET", "/api/buckets/abcde", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var buckets []Bucket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &buckets))
	total := 0
	for _, b := range buckets {
		total += len(b.Words)
	}
	assert.Equal(t, 4, total)

	rec = do(t, h, "GET", "/api/buckets/zzzzz", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRank(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, "POST", "/api/rank", `{"candidates":["abcde","edcba"],"guesses":["speed","abcde"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp RankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Candidates)
	require.Len(t, resp.Ranked, 2)
	assert.Equal(t, entropy.Ranked{Word: "abcde", Score: 1}, resp.Ranked[0])

	rec = do(t, h, "POST", "/api/rank", `{"limit":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Candidates)
	assert.Len(t, resp.Ranked, 2)

	rec = do(t, h, "POST", "/api/rank", `{"candidates":["zzzzz"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "POST", "/api/rank", `{"guesses":["zzzzz"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, http.StatusBadRequest, errResp.Status)
	assert.Contains(t, errResp.Error, "zzzzz")

	rec = do(t, h, "POST", "/api/rank", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "GET", "/api/rank", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
