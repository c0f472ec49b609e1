// Package qrcode renders tokens as QR codes, either as PNG images or as
// block characters for a terminal.
package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when content is empty or only whitespace.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrGenerate wraps failures of the encoder, most often content that
	// exceeds QR capacity.
	ErrGenerate = errors.New("failed to generate QR code")
)

// DefaultSize is the PNG edge length in pixels used when size <= 0.
const DefaultSize = 200

// Generate returns a PNG QR code of content with medium error correction.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerate, err)
	}
	return png, nil
}

// DataURI returns the PNG as a data:image/png;base64 URI.
func DataURI(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Terminal renders content with half-height block characters, two modules
// per character row.
func Terminal(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}

	q, err := skipqrcode.New(content, skipqrcode.Medium)
	if err != nil {
		return "", errors.Join(ErrGenerate, err)
	}
	return q.ToSmallString(false), nil
}
