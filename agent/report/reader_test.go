package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	contractx "github.com/pattarin/bloodlens/agent/contract"
)

func TestExtractJoinsPagesInOrder(t *testing.T) {
	t.Parallel()

	path := writeTempPDF(t)
	reader := NewReader(WithParser(func(string) ([]string, error) {
		return []string{"page one", "page two", "page three"}, nil
	}))

	text, err := reader.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "page one\npage two\npage three" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractZeroPagesYieldsEmptyString(t *testing.T) {
	t.Parallel()

	path := writeTempPDF(t)
	reader := NewReader(WithParser(func(string) ([]string, error) {
		return nil, nil
	}))

	text, err := reader.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty string, got %q", text)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	t.Parallel()

	path := writeTempPDF(t)
	reader := NewReader(WithParser(func(string) ([]string, error) {
		return []string{"Hemoglobin: 12.0"}, nil
	}))

	first, err := reader.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	second, err := reader.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if first != second {
		t.Fatalf("expected identical output, got %q vs %q", first, second)
	}
}

func TestExtractMissingFileFailsAfterAllAttempts(t *testing.T) {
	t.Parallel()

	delay := 20 * time.Millisecond
	reader := NewReader(WithAttempts(3), WithRetryDelay(delay))

	start := time.Now()
	_, err := reader.Extract(context.Background(), filepath.Join(t.TempDir(), "never.pdf"))
	elapsed := time.Since(start)

	if !errors.Is(err, contractx.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("expected attempt count in error, got %q", err.Error())
	}
	// Two inter-attempt waits for three attempts.
	if elapsed < 2*delay {
		t.Fatalf("expected at least %v of retry delay, elapsed %v", 2*delay, elapsed)
	}
}

func TestExtractWrongExtensionFailsImmediately(t *testing.T) {
	t.Parallel()

	reader := NewReader(WithAttempts(3), WithRetryDelay(time.Second))

	start := time.Now()
	_, err := reader.Extract(context.Background(), filepath.Join(t.TempDir(), "report.txt"))
	elapsed := time.Since(start)

	if !errors.Is(err, contractx.ErrReportFormat) {
		t.Fatalf("expected ErrReportFormat, got %v", err)
	}
	// A format violation must not enter the existence retry loop.
	if elapsed > 500*time.Millisecond {
		t.Fatalf("extension check took %v; retries must not run", elapsed)
	}
}

func TestExtractExtensionIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.PDF")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	reader := NewReader(WithParser(func(string) ([]string, error) {
		return []string{"ok"}, nil
	}))

	text, err := reader.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "ok" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractWrapsParserFailure(t *testing.T) {
	t.Parallel()

	path := writeTempPDF(t)
	cause := errors.New("corrupt xref table")
	reader := NewReader(WithParser(func(string) ([]string, error) {
		return nil, cause
	}))

	_, err := reader.Extract(context.Background(), path)
	if !errors.Is(err, contractx.ErrReportExtract) {
		t.Fatalf("expected ErrReportExtract, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, cause.Error()) {
		t.Fatalf("expected cause message in %q", got)
	}
}

func TestExtractHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	reader := NewReader(WithAttempts(10), WithRetryDelay(50*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	_, err := reader.Extract(ctx, filepath.Join(t.TempDir(), "never.pdf"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}

func TestExtractWaitsForSlowToSettleUpload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "late.pdf")
	reader := NewReader(WithAttempts(5), WithRetryDelay(30*time.Millisecond), WithParser(func(string) ([]string, error) {
		return []string{"settled"}, nil
	}))

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(path, []byte("%PDF-1.4"), 0o644)
	}()

	text, err := reader.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "settled" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
