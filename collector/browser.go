package collector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/chexlabs/buzzline/feed"
)

// extractJS pulls (url, text, raw view text) out of every post
// article currently rendered. View counts stay raw strings here
// ("1.2K"); parsing happens Go-side where it can be tested.
const extractJS = `() => {
	const articles = Array.from(document.querySelectorAll('article'));
	return articles.map(el => {
		const anchor = el.querySelector('a[href*="/status/"]');
		if (!anchor) return null;
		const textEl = el.querySelector('div[lang]');
		const analytics = Array.from(el.querySelectorAll('div[role="group"] a'))
			.find(a => (a.getAttribute('href') || '').endsWith('/analytics'));
		return {
			url: anchor.href,
			text: textEl ? textEl.innerText : '',
			views: analytics ? analytics.innerText : ''
		};
	}).filter(p => p !== null);
}`

const scrollJS = `() => window.scrollTo(0, document.body.scrollHeight)`

// BrowserConfig configures the live-search scraper.
type BrowserConfig struct {
	BaseURL       string // platform origin, e.g. https://twitter.com
	CookieDomain  string // e.g. .twitter.com
	SessionCookie string // auth_token cookie value
	Topic         string // search query, e.g. $chex
	ScrollPasses  int    // how many scroll-and-extract passes per cycle
	Headless      bool
	SettleDelay   time.Duration // wait after each scroll for new posts to render
	NavTimeout    time.Duration
}

// Browser collects posts by driving a real browser session against
// the live search page.
type Browser struct {
	cfg BrowserConfig
	log *zap.SugaredLogger
}

func NewBrowser(cfg BrowserConfig, log *zap.SugaredLogger) *Browser {
	if cfg.ScrollPasses <= 0 {
		cfg.ScrollPasses = 4
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 2 * time.Second
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}
	return &Browser{cfg: cfg, log: log}
}

// Collect launches a browser, authenticates with the session cookie,
// opens the live search for the topic, and accumulates posts over
// the configured number of scroll passes. Posts are merged by URL
// across passes, first observation wins.
func (b *Browser) Collect(ctx context.Context) (posts []feed.Post, err error) {
	controlURL, err := launcher.New().Headless(b.cfg.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("collector: launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("collector: connect browser: %w", err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("collector: close browser: %w", cerr)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("collector: open page: %w", err)
	}

	if err := page.SetCookies([]*proto.NetworkCookieParam{{
		Name:   "auth_token",
		Value:  b.cfg.SessionCookie,
		Domain: b.cfg.CookieDomain,
	}}); err != nil {
		return nil, fmt.Errorf("collector: set session cookie: %w", err)
	}

	searchURL := fmt.Sprintf("%s/search?q=%s&src=typed_query&f=live",
		b.cfg.BaseURL, url.QueryEscape(b.cfg.Topic))

	if err := page.Timeout(b.cfg.NavTimeout).Navigate(searchURL); err != nil {
		return nil, fmt.Errorf("collector: navigate search: %w", err)
	}
	if err := page.Timeout(b.cfg.NavTimeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("collector: wait for search page: %w", err)
	}

	seen := make(map[string]bool)

	for pass := 0; pass < b.cfg.ScrollPasses; pass++ {
		res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
			JS:      extractJS,
			ByValue: true,
		})
		if err != nil {
			return nil, fmt.Errorf("collector: extract posts (pass %d): %w", pass+1, err)
		}

		for _, item := range res.Value.Arr() {
			u := item.Get("url").Str()
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			posts = append(posts, feed.Post{
				URL:   u,
				Text:  item.Get("text").Str(),
				Views: feed.ParseViewCount(item.Get("views").Str()),
			})
		}

		if _, err := page.Context(ctx).Evaluate(&rod.EvalOptions{JS: scrollJS}); err != nil {
			return nil, fmt.Errorf("collector: scroll (pass %d): %w", pass+1, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.cfg.SettleDelay):
		}
	}

	b.log.Infow("collected posts", "topic", b.cfg.Topic, "count", len(posts))
	return posts, nil
}
