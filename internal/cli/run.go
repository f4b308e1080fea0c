package cli

import (
	"context"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chexlabs/buzzline/collector"
	"github.com/chexlabs/buzzline/config"
	"github.com/chexlabs/buzzline/ledger"
	"github.com/chexlabs/buzzline/logging"
	"github.com/chexlabs/buzzline/policy"
	"github.com/chexlabs/buzzline/runner"
	"github.com/chexlabs/buzzline/sentiment"
	"github.com/chexlabs/buzzline/smm"
)

func newRunCmd(rc *RootConfig) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engagement loop",
		Long: `Run collects posts, classifies them, places orders, and repeats on
the configured interval until interrupted. The process exits non-zero
when the panel reports insufficient balance; refill and restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rc)
			if err != nil {
				return err
			}

			log, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			led, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer led.Close()
			log.Infow("ledger loaded", "type", cfg.Ledger.Type,
				"path", cfg.Ledger.Path, "records", led.Len())

			classifier, err := sentiment.NewLLM(ctx,
				cfg.Classifier.APIKey, cfg.Classifier.Model, cfg.Topic, log)
			if err != nil {
				return err
			}

			scraper := collector.NewBrowser(collector.BrowserConfig{
				BaseURL:       cfg.Collector.BaseURL,
				CookieDomain:  cfg.Collector.CookieDomain,
				SessionCookie: cfg.Collector.SessionCookie,
				Topic:         cfg.Topic,
				ScrollPasses:  cfg.Collector.ScrollPasses,
				Headless:      cfg.Collector.Headless,
				SettleDelay:   time.Duration(cfg.Collector.SettleDelayMS) * time.Millisecond,
				NavTimeout:    time.Duration(cfg.Collector.NavTimeoutSec) * time.Second,
			}, log)

			panel := smm.NewClient(cfg.Panel.Endpoint, cfg.Panel.Key,
				map[policy.Kind]string{
					policy.Likes:       cfg.Panel.LikesServiceID,
					policy.Impressions: cfg.Panel.ImpressionsServiceID,
				})

			r := &runner.CycleRunner{
				Collector:  scraper,
				Classifier: classifier,
				Policy: policy.New(
					cfg.Policy.ViewThreshold,
					cfg.Policy.LikeMin,
					cfg.Policy.LikeMax,
					cfg.Policy.ImpressionQty,
					cfg.Policy.ImpressionsEnabled,
					rand.New(rand.NewSource(time.Now().UnixNano())),
				),
				Executor: &smm.Executor{
					Panel: panel,
					Pause: time.Duration(cfg.Panel.OrderPauseMS) * time.Millisecond,
					Log:   log,
				},
				Ledger: led,
				Log:    log,
			}

			if once {
				_, err := r.RunCycle(ctx)
				return err
			}
			return r.Loop(ctx, cfg.Interval(), cfg.LogInterval())
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Run a single cycle and exit")
	return cmd
}

func loadConfig(rc *RootConfig) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if rc.ConfigPath != "" {
		cfg, err = config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if rc.LogLevel != "" {
		cfg.LogLevel = rc.LogLevel
	}
	return cfg, nil
}

func openLedger(cfg *config.Config) (ledger.Ledger, error) {
	switch cfg.Ledger.Type {
	case "sqlite":
		return ledger.OpenSQLite(cfg.Ledger.Path)
	default:
		return ledger.OpenJSON(cfg.Ledger.Path)
	}
}
