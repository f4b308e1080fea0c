// Package sentiment classifies post text toward the tracked topic.
package sentiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/chexlabs/buzzline/feed"
)

// Classifier labels a post's stance toward the topic. Classify is
// total: it never returns an error, so a flaky model can degrade a
// single post's label but can never stall the pipeline.
type Classifier interface {
	Classify(ctx context.Context, text string) feed.Sentiment
}

// promptTemplate is the fixed instruction sent with each post. The
// explicit sell/warn clauses exist because the model otherwise labels
// "sold all my X" posts neutral.
const promptTemplate = `%s is a crypto token and RWA project. Classify the sentiment of this post towards %s as positive, negative, or neutral. Consider the overall message, intent, and any implicit meanings. If the post expresses satisfaction in selling or switching away from %s, classify it as negative. If the post in any way says essentially don't buy it or be careful with it, classify it as negative. Answer with a single word. Here is the post:

"%s"`

// LLM classifies via the Gemini API.
type LLM struct {
	client *genai.Client
	model  string
	topic  string
	log    *zap.SugaredLogger
}

// NewLLM builds a Gemini-backed classifier for topic.
func NewLLM(ctx context.Context, apiKey, model, topic string, log *zap.SugaredLogger) (*LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sentiment: API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("sentiment: create client: %w", err)
	}

	return &LLM{client: client, model: model, topic: topic, log: log}, nil
}

// Classify sends text to the model and parses the reply. Any failure
// (transport, rate limit, empty candidate) degrades to Neutral —
// the most conservative label that still lets a decision be made.
func (c *LLM) Classify(ctx context.Context, text string) feed.Sentiment {
	prompt := fmt.Sprintf(promptTemplate, c.topic, c.topic, c.topic, text)

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0),
			MaxOutputTokens: 100,
		},
	)
	if err != nil {
		c.log.Warnw("classifier call failed, defaulting to neutral", "err", err)
		return feed.Neutral
	}

	reply := resp.Text()
	if reply == "" {
		c.log.Warnw("classifier returned empty reply, defaulting to neutral")
		return feed.Neutral
	}
	return feed.ParseSentiment(reply)
}
