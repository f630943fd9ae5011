package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
)

const (
	rasterDPI         = 200
	rasterJPEGQuality = 85
)

// PageImage is one rasterized document page, JPEG-encoded. Index follows
// document page order and is significant downstream.
type PageImage struct {
	Index int
	Data  []byte
}

type DocumentRasterizer interface {
	Rasterize(data []byte, fileType string) ([]PageImage, error)
}

type documentRasterizer struct{}

func NewDocumentRasterizer() DocumentRasterizer {
	return &documentRasterizer{}
}

// Rasterize implements DocumentRasterizer. PDFs render one image per page at
// a fixed DPI; single images become a one-page document. Any decode failure
// is a RasterizationError.
func (r *documentRasterizer) Rasterize(data []byte, fileType string) ([]PageImage, error) {
	switch strings.ToLower(fileType) {
	case "pdf":
		return r.rasterizePDF(data)
	case "jpg", "jpeg", "png":
		return r.rasterizeImage(data)
	default:
		return nil, &RasterizationError{Err: fmt.Errorf("unsupported file type: %s", fileType)}
	}
}

func (r *documentRasterizer) rasterizePDF(data []byte) ([]PageImage, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, &RasterizationError{Err: fmt.Errorf("failed to open PDF: %w", err)}
	}
	defer doc.Close()

	var pages []PageImage
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, rasterDPI)
		if err != nil {
			return nil, &RasterizationError{Err: fmt.Errorf("failed to render page %d: %w", n+1, err)}
		}

		encoded, err := encodeJPEG(img)
		if err != nil {
			return nil, &RasterizationError{Err: fmt.Errorf("failed to encode page %d: %w", n+1, err)}
		}

		pages = append(pages, PageImage{Index: n, Data: encoded})
	}

	if len(pages) == 0 {
		return nil, &RasterizationError{Err: fmt.Errorf("PDF contains no pages")}
	}

	return pages, nil
}

func (r *documentRasterizer) rasterizeImage(data []byte) ([]PageImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &RasterizationError{Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	encoded, err := encodeJPEG(img)
	if err != nil {
		return nil, &RasterizationError{Err: fmt.Errorf("failed to encode image: %w", err)}
	}

	return []PageImage{{Index: 0, Data: encoded}}, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: rasterJPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
