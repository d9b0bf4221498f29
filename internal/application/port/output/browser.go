package output

import (
	"context"
	"time"

	"pagequery/internal/domain/entity"
	"pagequery/pkg/query"
)

type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	SetContent(ctx context.Context, html string) error

	// Page returns the current tab as a query.PageContext.
	Page() query.PageContext
	ScreenshotElement(ctx context.Context, ref query.ElementRef, maxWidth int) (*entity.Screenshot, error)

	SetTimeout(d time.Duration)
	CurrentURL() string
	IsReady() bool
	Close()
}
