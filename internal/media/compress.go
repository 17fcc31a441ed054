package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	// decoders for image.Decode
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

const compressWorkers = 4

// downsizes an image to MaxImageWidth and re-encodes it as JPEG; PDFs pass through untouched
func Compress(doc Document) (Document, error) {
	if doc.IsPDF() {
		return doc, nil
	}

	// a small file can still declare enormous dimensions
	cfg, _, err := image.DecodeConfig(bytes.NewReader(doc.Data))
	if err != nil {
		return Document{}, fmt.Errorf("failed to decode image: %w", err)
	}

	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return Document{}, fmt.Errorf("%w: %dx%d image", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(doc.Data))
	if err != nil {
		return Document{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > MaxImageWidth {
		height = height * MaxImageWidth / width
		width = MaxImageWidth
	}

	if height < 1 {
		height = 1
	}

	// flatten onto white so transparent PNGs don't turn black as JPEG
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return Document{}, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return Document{MIMEType: MIMETypeJPEG, Data: buf.Bytes()}, nil
}

// compresses every document concurrently; output order matches input order
func CompressAll(ctx context.Context, docs []Document) ([]Document, error) {
	out := make([]Document, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(compressWorkers)

	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			compressed, err := Compress(doc)
			if err != nil {
				return fmt.Errorf("attachment %d: %w", i+1, err)
			}

			out[i] = compressed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
