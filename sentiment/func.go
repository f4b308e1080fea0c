package sentiment

import (
	"context"

	"github.com/chexlabs/buzzline/feed"
)

// Func adapts a plain function to the Classifier interface. Used by
// tests and dry runs to substitute the live model.
type Func func(ctx context.Context, text string) feed.Sentiment

func (f Func) Classify(ctx context.Context, text string) feed.Sentiment {
	return f(ctx, text)
}

// Fixed returns a Classifier that always answers s.
func Fixed(s feed.Sentiment) Classifier {
	return Func(func(context.Context, string) feed.Sentiment { return s })
}
