// Package ocr wraps text extraction from answer images behind a single
// lazily-initialized engine handle.
package ocr

import (
	"context"
	"io"
	"sync"
)

// Extractor turns an image (or a path to one) into plain text.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (string, error)
	ExtractPath(ctx context.Context, path string) (string, error)
}

// Engine is the shared OCR handle. The underlying extractor is built on
// first use; Init is idempotent and safe to call from concurrent requests,
// so the setup cost is paid exactly once per process.
type Engine struct {
	build func() (Extractor, error)
	once  sync.Once
	ext   Extractor
	err   error
}

// NewEngine takes the extractor constructor so the expensive setup can be
// deferred and so tests can count initializations. A nil build falls back
// to the tesseract adapter with the default language.
func NewEngine(build func() (Extractor, error)) *Engine {
	if build == nil {
		build = func() (Extractor, error) { return NewTesseract(""), nil }
	}
	return &Engine{build: build}
}

// Init builds the extractor if it hasn't been built yet. Subsequent calls
// are no-ops and return the original result.
func (e *Engine) Init(ctx context.Context) error {
	e.once.Do(func() { e.ext, e.err = e.build() })
	return e.err
}

func (e *Engine) Extract(ctx context.Context, r io.Reader) (string, error) {
	if err := e.Init(ctx); err != nil {
		return "", err
	}
	return e.ext.Extract(ctx, r)
}

func (e *Engine) ExtractPath(ctx context.Context, path string) (string, error) {
	if err := e.Init(ctx); err != nil {
		return "", err
	}
	return e.ext.ExtractPath(ctx, path)
}
