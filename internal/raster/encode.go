package raster

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

var ErrUnknownFormat = errors.New("raster: unknown image format")

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
)

// ParseFormat accepts "png", "tiff" or "tif", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "tiff", "tif":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFor infers the format from a file extension, defaulting to PNG.
func FormatFor(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return PNG
	}
	return f
}

func (r *Raster) Encode(w io.Writer, f Format) error {
	if r.Locked() {
		return ErrLocked
	}
	switch f {
	case PNG:
		return png.Encode(w, r.img)
	case TIFF:
		return tiff.Encode(w, r.img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Save writes the raster to path, creating parent directories.
func (r *Raster) Save(path string, f Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
