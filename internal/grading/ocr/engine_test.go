package ocr

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

type stubExtractor struct{ text string }

func (s *stubExtractor) Extract(_ context.Context, r io.Reader) (string, error) {
	io.Copy(io.Discard, r)
	return s.text, nil
}

func (s *stubExtractor) ExtractPath(_ context.Context, _ string) (string, error) {
	return s.text, nil
}

func TestEngineInitIdempotent(t *testing.T) {
	var inits int32
	e := NewEngine(func() (Extractor, error) {
		atomic.AddInt32(&inits, 1)
		return &stubExtractor{text: "hello"}, nil
	})

	if err := e.Init(context.Background()); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := e.Init(context.Background()); err != nil {
		t.Fatalf("second init: %v", err)
	}
	if got := atomic.LoadInt32(&inits); got != 1 {
		t.Fatalf("expected exactly one initialization, got %d", got)
	}
}

func TestEngineInitConcurrent(t *testing.T) {
	var inits int32
	e := NewEngine(func() (Extractor, error) {
		atomic.AddInt32(&inits, 1)
		return &stubExtractor{text: "hi"}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Extract(context.Background(), strings.NewReader("img")); err != nil {
				t.Errorf("extract: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := atomic.LoadInt32(&inits); got != 1 {
		t.Fatalf("expected exactly one initialization under concurrency, got %d", got)
	}
}

func TestEngineExtractLazilyInits(t *testing.T) {
	var inits int32
	e := NewEngine(func() (Extractor, error) {
		atomic.AddInt32(&inits, 1)
		return &stubExtractor{text: "lazy"}, nil
	})
	text, err := e.Extract(context.Background(), strings.NewReader("img"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "lazy" {
		t.Fatalf("text = %q", text)
	}
	if got := atomic.LoadInt32(&inits); got != 1 {
		t.Fatalf("expected lazy init on first extract, got %d inits", got)
	}
}

func TestEngineInitErrorSticks(t *testing.T) {
	boom := errors.New("no engine")
	e := NewEngine(func() (Extractor, error) { return nil, boom })
	if err := e.Init(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected build error, got %v", err)
	}
	if _, err := e.Extract(context.Background(), strings.NewReader("x")); !errors.Is(err, boom) {
		t.Fatalf("expected sticky build error, got %v", err)
	}
}
