package di

import (
	"context"
	"fmt"

	"pagequery/internal/application/port/output"
	"pagequery/internal/infrastructure/browser/rod"
	"pagequery/internal/infrastructure/logger"
	"pagequery/pkg/query"
)

type Container struct {
	Browser output.BrowserPort
	Logger  *logger.LoggerAdapter
	Page    *query.Page
}

type Config struct {
	Browser rod.BrowserConfig
	Log     logger.Config
}

// ConfigFromEnv maps PAGEQUERY_* and LOG_* variables onto Config.
func ConfigFromEnv(env output.ConfigPort) Config {
	browser := rod.DefaultConfig()
	browser.Headless = env.GetBool("PAGEQUERY_HEADLESS", true)
	browser.NoSandbox = env.GetBool("PAGEQUERY_NO_SANDBOX", false)
	browser.DevTools = env.GetBool("PAGEQUERY_DEVTOOLS", false)
	browser.DisableSecurityFeatures = env.GetBool("PAGEQUERY_DISABLE_SECURITY", false)
	browser.Timeout = env.GetDuration("PAGEQUERY_TIMEOUT", browser.Timeout)
	browser.SlowMotion = env.GetDuration("PAGEQUERY_SLOW_MOTION", browser.SlowMotion)

	log := logger.DefaultConfig()
	log.Level = env.GetWithDefault("LOG_LEVEL", log.Level)
	log.Format = env.GetWithDefault("LOG_FORMAT", log.Format)
	log.Dir = env.Get("LOG_DIR")

	return Config{Browser: browser, Log: log}
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browser, err := rod.NewBrowserAdapter(ctx, cfg.Browser, log.Zap().Named("rod"))
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	page, err := query.NewPage(browser.Page(), query.WithLogger(log.Zap().Named("query")))
	if err != nil {
		browser.Close()
		log.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &Container{
		Browser: browser,
		Logger:  log,
		Page:    page,
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
