// Package barcode extracts product barcodes from prepared scan images.
package barcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Decoder finds a barcode in a PNG image. It returns "" and a nil error
// when the image contains no readable barcode.
type Decoder interface {
	Decode(ctx context.Context, png []byte) (string, error)
}

// zbarNoSymbols is the exit status zbarimg uses when nothing was found.
const zbarNoSymbols = 4

// DefaultTimeout bounds a single zbarimg run.
const DefaultTimeout = 15 * time.Second

// Zbar decodes barcodes by running the zbarimg command-line tool.
type Zbar struct {
	Path    string
	Timeout time.Duration
}

// NewZbar returns a Zbar using the zbarimg binary at path.
func NewZbar(path string) *Zbar {
	if path == "" {
		path = "zbarimg"
	}
	return &Zbar{Path: path, Timeout: DefaultTimeout}
}

// Decode writes the image to a temporary file and runs zbarimg on it.
// Only the first decoded symbol is returned.
func (z *Zbar) Decode(ctx context.Context, png []byte) (string, error) {
	f, err := os.CreateTemp("", "shramba-scan-*.png")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(png); err != nil {
		f.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	timeout := z.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(cmdCtx, z.Path, "--raw", "-q", f.Name())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctxErr := cmdCtx.Err(); ctxErr != nil {
		return "", fmt.Errorf("running %s: %w", z.Path, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == zbarNoSymbols {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("running %s: %w: %s", z.Path, err, strings.TrimSpace(stderr.String()))
	}

	return firstLine(stdout.String()), nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
