package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	contractx "github.com/pattarin/bloodlens/agent/contract"
)

const (
	defaultAttempts   = 3
	defaultRetryDelay = time.Second
)

// Reader extracts plain text from an uploaded PDF report.
//
// The file extension is a precondition and is checked before any
// file-system access; a wrong extension never triggers existence retries.
// Existence is checked with a bounded constant-interval retry to tolerate
// slow-to-settle uploads, and the wait honors ctx cancellation.
type Reader struct {
	attempts int
	delay    time.Duration

	// parse reads the ordered page texts of a PDF. Swappable in tests.
	parse func(path string) ([]string, error)
}

type Option func(*Reader)

func WithAttempts(attempts int) Option {
	return func(r *Reader) {
		if attempts > 0 {
			r.attempts = attempts
		}
	}
}

func WithRetryDelay(delay time.Duration) Option {
	return func(r *Reader) {
		if delay > 0 {
			r.delay = delay
		}
	}
}

// WithParser swaps the page parser, e.g. for a different document backend.
func WithParser(parse func(path string) ([]string, error)) Option {
	return func(r *Reader) {
		if parse != nil {
			r.parse = parse
		}
	}
}

func NewReader(opts ...Option) *Reader {
	r := &Reader{
		attempts: defaultAttempts,
		delay:    defaultRetryDelay,
		parse:    readPDFPages,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Extract resolves filePath to an absolute path, waits for the file to
// exist, and returns all page texts joined in page order by single
// newlines. A report with zero pages yields an empty string.
//
// Extract blocks on file-system waits and CPU-bound parsing; callers on a
// latency-sensitive path should run it off that path.
func (r *Reader) Extract(ctx context.Context, filePath string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: resolve path %q: %v", contractx.ErrValidation, filePath, err)
	}

	if !strings.EqualFold(filepath.Ext(absPath), ".pdf") {
		return "", fmt.Errorf("%w: %s", contractx.ErrReportFormat, absPath)
	}

	if err := r.waitForFile(ctx, absPath); err != nil {
		return "", err
	}

	pages, err := r.parse(absPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrReportExtract, err)
	}

	return strings.Join(pages, "\n"), nil
}

func (r *Reader) waitForFile(ctx context.Context, absPath string) error {
	backoff := retry.WithMaxRetries(uint64(r.attempts-1), retry.NewConstant(r.delay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		info, err := os.Stat(absPath)
		if err != nil {
			return retry.RetryableError(err)
		}
		if info.IsDir() {
			return retry.RetryableError(fmt.Errorf("%s is a directory", absPath))
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: after %d attempts: %s", contractx.ErrReportNotFound, r.attempts, absPath)
}
