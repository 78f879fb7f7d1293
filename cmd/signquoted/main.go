package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/neontj/signquote/internal/httpapi"
	"github.com/neontj/signquote/internal/pricing"
	"github.com/neontj/signquote/internal/quote"
	"github.com/neontj/signquote/pkg/captcha"
	"github.com/neontj/signquote/pkg/clientip"
	"github.com/neontj/signquote/pkg/config"
	"github.com/neontj/signquote/pkg/email"
	"github.com/neontj/signquote/pkg/environment"
	"github.com/neontj/signquote/pkg/file"
	"github.com/neontj/signquote/pkg/httpserver"
	"github.com/neontj/signquote/pkg/logger"
	"github.com/neontj/signquote/pkg/ratelimit"
	"github.com/neontj/signquote/pkg/redis"
	"github.com/neontj/signquote/pkg/requestid"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"SERVICE_NAME" envDefault:"signquoted"`
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "smoke" {
		if err := smoke(context.Background(), os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "smoke:", err)
			os.Exit(1)
		}
		return
	}

	if err := run(context.Background()); err != nil {
		slog.Error("signquoted stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		app      appConfig
		logCfg   logger.Config
		httpCfg  httpserver.Config
		quoteCfg quote.Config
		mailCfg  email.Config
		redisCfg redis.Config
		s3Cfg    file.S3Config
		capCfg   captcha.Config
		priceCfg pricing.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&app) },
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&quoteCfg) },
		func() error { return config.Load(&mailCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&s3Cfg) },
		func() error { return config.Load(&capCfg) },
		func() error { return config.Load(&priceCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	env := environment.Parse(app.Env)
	log := newLogger(env, app.Service, logCfg, os.Stdout)
	logger.SetAsDefault(log)

	sheet, err := pricing.FromConfig(priceCfg)
	if err != nil {
		return err
	}
	engine := pricing.NewEngine(sheet)

	store, readiness, closeStore, err := rateStore(ctx, redisCfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	quoteLimiter, err := ratelimit.NewFixedWindow(store, quoteCfg.RateLimitMax, quoteCfg.RateLimitWindow)
	if err != nil {
		return err
	}
	estimateLimiter, err := ratelimit.NewFixedWindow(store, quoteCfg.EstimateRateLimitMax, quoteCfg.EstimateRateLimitWindow)
	if err != nil {
		return err
	}

	guardOpts := []quote.GuardOption{quote.WithGuardLogger(log)}
	if capCfg.Enabled() {
		guardOpts = append(guardOpts, quote.WithVerifier(captcha.New(capCfg)))
	}
	guard, err := quote.NewGuard(quoteLimiter, guardOpts...)
	if err != nil {
		return err
	}

	dispatcherOpts := []quote.DispatcherOption{
		quote.WithEngine(engine),
		quote.WithValidator(quote.NewValidator(quote.WithStrictFields(quoteCfg.StrictFields))),
		quote.WithLogger(log),
	}
	if mailCfg.Enabled() {
		sender, err := email.New(ctx, mailCfg)
		if err != nil {
			return err
		}
		dispatcherOpts = append(dispatcherOpts, quote.WithSender(sender, quote.Mail{
			Provider: mailCfg.ProviderName(),
			From:     mailCfg.Sender(),
			To:       mailCfg.Recipients(),
			Timeout:  mailCfg.Timeout,
		}))
	}
	if s3Cfg.Enabled() {
		storage, err := file.NewS3Storage(ctx, s3Cfg)
		if err != nil {
			return err
		}
		dispatcherOpts = append(dispatcherOpts, quote.WithPreviewStorage(storage))
	}

	dispatcher, err := quote.NewDispatcher(quoteCfg, guard, dispatcherOpts...)
	if err != nil {
		return err
	}

	region := ""
	if mailCfg.RegionConfigured() {
		region = mailCfg.Region()
	}
	router := httpapi.NewRouter(dispatcher,
		httpapi.WithEngine(engine),
		httpapi.WithEnvironment(env),
		httpapi.WithEstimateLimiter(estimateLimiter),
		httpapi.WithReadinessChecks(readiness...),
		httpapi.WithMaxBodyBytes(quoteCfg.MaxBodyBytes),
		httpapi.WithLogger(log),
		httpapi.WithHealth(httpapi.Health{
			MailProvider:     mailCfg.ProviderName(),
			SESRegion:        region,
			SESFromSet:       mailCfg.Sender() != "",
			SESToCount:       len(mailCfg.Recipients()),
			DryRun:           dispatcher.DryRun(),
			ExposeErrors:     quoteCfg.Debug(),
			ChallengeEnabled: guard.ChallengeEnabled(),
			RateLimitMax:     quoteCfg.RateLimitMax,
			RateLimitWindow:  quoteCfg.RateLimitWindow,
		}),
	)

	log.Info("signquoted starting",
		slog.String("addr", httpCfg.Addr),
		slog.Bool("dry_run", dispatcher.DryRun()),
		logger.Provider(mailCfg.ProviderName()),
		slog.Bool("redis", redisCfg.Enabled()),
		slog.Bool("preview_upload", s3Cfg.Enabled()),
	)

	return httpserver.New(httpCfg, httpserver.WithLogger(log)).Run(ctx, router)
}

// newLogger tags records with the service and env, and with the request id
// and client IP carried by request contexts.
func newLogger(env environment.Environment, service string, cfg logger.Config, out io.Writer) *slog.Logger {
	return logger.New(
		logger.WithEnvironment(env, service),
		logger.WithConfig(cfg),
		logger.WithOutput(out),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
}

// rateStore returns the counter store shared by the quote and estimate
// limiters. Without Redis each process counts alone.
func rateStore(ctx context.Context, cfg redis.Config, log *slog.Logger) (ratelimit.Store, []func(context.Context) error, func(), error) {
	if !cfg.Enabled() {
		log.Warn("REDIS_URL not set, rate limits are per instance")
		store := ratelimit.NewMemoryStore()
		return store, nil, func() { _ = store.Close() }, nil
	}

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := ratelimit.NewRedisStore(client)
	if err != nil {
		_ = client.Close()
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("close redis client", logger.Error(err))
		}
	}
	return store, []func(context.Context) error{redis.Healthcheck(client)}, closeFn, nil
}
