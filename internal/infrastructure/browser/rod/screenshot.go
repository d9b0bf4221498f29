package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod/lib/proto"

	"pagequery/internal/domain/entity"
	"pagequery/pkg/query"
)

const defaultShotWidth = 1024

// ScreenshotElement снимает скриншот элемента и ужимает его до maxWidth.
func (b *BrowserAdapter) ScreenshotElement(ctx context.Context, ref query.ElementRef, maxWidth int) (*entity.Screenshot, error) {
	if !b.IsReady() {
		return nil, ErrClosed
	}
	r, ok := ref.(*elementRef)
	if !ok || r == nil || r.el == nil {
		return nil, ErrForeignRef
	}
	if maxWidth <= 0 {
		maxWidth = defaultShotWidth
	}

	tctx, cancel := b.withTimeout(ctx)
	defer cancel()

	raw, err := r.el.Context(tctx).Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}
