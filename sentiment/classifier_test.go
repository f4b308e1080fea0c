package sentiment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/chexlabs/buzzline/feed"
)

// newTestLLM builds an LLM whose genai client talks to srv instead of
// the live API.
func newTestLLM(t *testing.T, srv *httptest.Server) *LLM {
	t.Helper()

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
		HTTPClient:  srv.Client(),
	})
	require.NoError(t, err)

	return &LLM{
		client: client,
		model:  "gemini-2.0-flash",
		topic:  "$chex",
		log:    zap.NewNop().Sugar(),
	}
}

func TestPromptTemplate(t *testing.T) {
	t.Parallel()

	prompt := fmt.Sprintf(promptTemplate, "$chex", "$chex", "$chex", "to the moon")

	assert.Contains(t, prompt, "$chex is a crypto token")
	assert.Contains(t, prompt, `"to the moon"`)
	assert.Contains(t, prompt, "positive, negative, or neutral")
	// The sell/warn clauses must survive edits; they carry real
	// classification behavior.
	assert.Contains(t, prompt, "selling or switching away")
	assert.Equal(t, 3, strings.Count(prompt, "$chex")) // all three topic slots filled
}

func TestFuncAdapter(t *testing.T) {
	t.Parallel()

	var got string
	c := Func(func(_ context.Context, text string) feed.Sentiment {
		got = text
		return feed.Negative
	})

	assert.Equal(t, feed.Negative, c.Classify(context.Background(), "rug pull"))
	assert.Equal(t, "rug pull", got)
}

func TestClassifyBackendErrorDefaultsNeutral(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"code": 500, "message": "backend unavailable", "status": "INTERNAL"}}`))
	}))
	defer srv.Close()

	c := newTestLLM(t, srv)
	assert.Equal(t, feed.Neutral, c.Classify(context.Background(), "chex to the moon"))
}

func TestClassifyEmptyReplyDefaultsNeutral(t *testing.T) {
	t.Parallel()

	// A 200 with no candidate text: safety filters and truncation both
	// produce this shape.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := newTestLLM(t, srv)
	assert.Equal(t, feed.Neutral, c.Classify(context.Background(), "chex to the moon"))
}

func TestClassifyParsesModelReply(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "Positive"}]}, "finishReason": "STOP"}]}`))
	}))
	defer srv.Close()

	c := newTestLLM(t, srv)
	assert.Equal(t, feed.Positive, c.Classify(context.Background(), "just bought more chex"))
}

func TestFixed(t *testing.T) {
	t.Parallel()

	c := Fixed(feed.Positive)
	assert.Equal(t, feed.Positive, c.Classify(context.Background(), "anything"))
	assert.Equal(t, feed.Positive, c.Classify(context.Background(), ""))
}
