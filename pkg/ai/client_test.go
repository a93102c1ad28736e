package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.URL, "test-key", "test-model", 5*time.Second, zap.NewNop())
	c.backoff = time.Millisecond
	return c
}

func reply(w http.ResponseWriter, content string) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func TestNotConfigured(t *testing.T) {
	c := New("http://unused", "", "m", time.Second, zap.NewNop())

	_, err := c.ScoreApplicant(context.Background(), models.ProfileSummary{}, models.JobDetails{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.EnhanceDescription(context.Background(), "text")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestScoreApplicant(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		assert.Contains(t, req.Messages[1].Content, `"userProfile"`)

		reply(w, `{"score": 82, "matchPercentage": 75, "feedback": "Good fit."}`)
	})

	res, err := c.ScoreApplicant(context.Background(), models.ProfileSummary{Name: "Ada"}, models.JobDetails{Title: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, models.ScoreResult{Score: 82, MatchPercentage: 75, Feedback: "Good fit."}, *res)
}

func TestScoreApplicantRejectsOutOfRange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, `{"score": 140, "matchPercentage": 75, "feedback": "?"}`)
	})

	_, err := c.ScoreApplicant(context.Background(), models.ProfileSummary{}, models.JobDetails{})
	assert.Error(t, err)
}

func TestRetriesOnServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		reply(w, "  A fine description.  ")
	})

	text, err := c.GenerateDescription(context.Background(), models.JobDetails{Title: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "A fine description.", text)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.EnhanceDescription(context.Background(), "draft")
	assert.Error(t, err)
	assert.EqualValues(t, maxAttempts, atomic.LoadInt32(&calls))
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "model not found"}}`))
	})

	_, err := c.EnhanceDescription(context.Background(), "draft")
	assert.EqualError(t, err, "ai api: model not found")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
