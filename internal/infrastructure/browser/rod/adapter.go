package rod

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"pagequery/internal/application/port/output"
	"pagequery/pkg/query"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const (
	defaultTimeout    = 10 * time.Second
	defaultSlowMotion = 0
)

var (
	ErrInvalidURL      = errors.New("invalid url")
	ErrInvalidSelector = errors.New("invalid selector")
	ErrClosed          = errors.New("browser is closed")
)

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool

	// DisableSecurityFeatures отключает web-security и CORS. Только для локальных стендов.
	DisableSecurityFeatures bool
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
	}
}

// BrowserAdapter владеет процессом Chrome и одной вкладкой.
type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	log      *zap.Logger

	mu      sync.RWMutex
	timeout time.Duration
	closed  bool
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig, log *zap.Logger) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.DisableSecurityFeatures {
		l = l.Set("disable-web-security").
			Set("allow-running-insecure-content")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	log.Debug("browser launched",
		zap.Bool("headless", cfg.Headless),
		zap.Duration("timeout", cfg.Timeout))

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		log:      log,
		timeout:  cfg.Timeout,
	}, nil
}

func (b *BrowserAdapter) IsReady() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.closed && b.page != nil
}

func (b *BrowserAdapter) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = defaultTimeout
	}
	b.mu.Lock()
	b.timeout = d
	b.mu.Unlock()
}

func (b *BrowserAdapter) Timeout() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.timeout
}

// withTimeout ограничивает операцию таймаутом адаптера.
func (b *BrowserAdapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, b.Timeout())
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) error {
	if !b.IsReady() {
		return ErrClosed
	}
	if err := validateURL(rawURL); err != nil {
		return err
	}

	tctx, cancel := b.withTimeout(ctx)
	defer cancel()

	p := b.page.Context(tctx)
	if err := p.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}

	b.log.Debug("navigated", zap.String("url", rawURL))
	return nil
}

// SetContent заменяет документ вкладки переданной разметкой.
func (b *BrowserAdapter) SetContent(ctx context.Context, html string) error {
	if !b.IsReady() {
		return ErrClosed
	}
	tctx, cancel := b.withTimeout(ctx)
	defer cancel()

	if err := b.page.Context(tctx).SetDocumentContent(html); err != nil {
		return fmt.Errorf("set content: %w", err)
	}
	return nil
}

// Page returns the tab as a query.PageContext.
func (b *BrowserAdapter) Page() query.PageContext {
	return &pageContext{adapter: b}
}

func (b *BrowserAdapter) CurrentURL() string {
	if !b.IsReady() {
		return ""
	}
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	b.log.Debug("browser closed")
}

func validateURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch u.Scheme {
	case "http", "https", "file", "about", "data":
		return nil
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
}
