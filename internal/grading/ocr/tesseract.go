package ocr

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"
)

// Tesseract shells out to the tesseract binary for text extraction from
// uploaded answer images.
type Tesseract struct {
	Lang    string
	Timeout time.Duration
}

func NewTesseract(lang string) *Tesseract {
	if lang == "" {
		lang = "eng"
	}
	return &Tesseract{Lang: lang, Timeout: 20 * time.Second}
}

func (t *Tesseract) Extract(ctx context.Context, r io.Reader) (string, error) {
	f, err := os.CreateTemp("", "answer-*.img")
	if err != nil {
		return "", err
	}
	defer func() { f.Close(); os.Remove(f.Name()) }()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return t.exec(ctx, f.Name())
}

func (t *Tesseract) ExtractPath(ctx context.Context, path string) (string, error) {
	return t.exec(ctx, path)
}

func (t *Tesseract) exec(ctx context.Context, inPath string) (string, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return "", errors.New("tesseract not found in PATH")
	}
	args := []string{inPath, "stdout"}
	if t.Lang != "" {
		args = append(args, "-l", t.Lang)
	}
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, "tesseract", args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.New(stderr.String())
	}
	return out.String(), nil
}
