// Package feed holds the domain types shared across the pipeline:
// observed posts, sentiment labels, and processed-ledger records.
package feed

import (
	"math"
	"strconv"
	"strings"
)

// Sentiment is the three-valued stance of a post toward the tracked topic.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the three known labels.
func (s Sentiment) Valid() bool {
	return s == Positive || s == Negative || s == Neutral
}

// ParseSentiment maps a free-text model reply onto a Sentiment.
//
// The match is a case-insensitive substring check and "positive" is
// tested before "negative", so a reply containing both words resolves
// to Positive. That precedence is load-bearing: downstream behavior was
// tuned against it, so keep the order.
func ParseSentiment(reply string) Sentiment {
	r := strings.ToLower(reply)
	switch {
	case strings.Contains(r, "positive"):
		return Positive
	case strings.Contains(r, "negative"):
		return Negative
	default:
		return Neutral
	}
}

// Post is a single observed social post. Text may be empty for
// non-text posts; those are skipped by the pipeline entirely.
type Post struct {
	URL   string
	Text  string
	Views int
}

// ProcessedRecord is the durable per-decision record. A record exists
// exactly once per URL; absence of any order means the post was skipped
// (negative sentiment or the low-view branch with impressions disabled).
type ProcessedRecord struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	Views     int       `json:"views"`
}

// ParseViewCount converts the scraped view-counter text into a count.
// The platform renders thousands with a K suffix ("1.2K"). Unparseable
// or empty input yields 0 — an unobservable count, not an error.
func ParseViewCount(raw string) int {
	s := strings.TrimSpace(strings.ToUpper(raw))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	if strings.HasSuffix(s, "K") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "K"), 64)
		if err != nil || f < 0 {
			return 0
		}
		return int(math.Round(f * 1000))
	}
	if strings.HasSuffix(s, "M") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "M"), 64)
		if err != nil || f < 0 {
			return 0
		}
		return int(math.Round(f * 1_000_000))
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
