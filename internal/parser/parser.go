// Package parser turns uploaded activity files into raw point sequences.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/trackrec/records-backend-go/internal/models"
)

// Format is an activity file format
type Format string

const (
	FormatGPX Format = "gpx"
	FormatFIT Format = "fit"
	FormatTCX Format = "tcx"
)

// ErrUnsupportedFormat is returned for files that cannot be detected or parsed
var ErrUnsupportedFormat = errors.New("unsupported track format, expected GPX/FIT/TCX")

// ErrMalformedTrack is returned when a detected file cannot be decoded
var ErrMalformedTrack = errors.New("malformed track file")

// SniffLength is how many leading bytes DetectFormat looks at
const SniffLength = 512

// DetectFormat identifies a file by its extension, falling back to its
// leading bytes.
func DetectFormat(filename string, head []byte) (Format, bool) {
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".") {
	case "gpx":
		return FormatGPX, true
	case "fit":
		return FormatFIT, true
	case "tcx":
		return FormatTCX, true
	}

	if len(head) > SniffLength {
		head = head[:SniffLength]
	}
	if isFITHeader(head) {
		return FormatFIT, true
	}
	lower := bytes.ToLower(head)
	switch {
	case bytes.Contains(lower, []byte("<gpx")):
		return FormatGPX, true
	case bytes.Contains(lower, []byte("<trainingcenterdatabase")):
		return FormatTCX, true
	}
	return "", false
}

// isFITHeader checks the 12 or 14 byte FIT file header signature
func isFITHeader(head []byte) bool {
	if len(head) < 12 {
		return false
	}
	size := int(head[0])
	return (size == 12 || size == 14) && string(head[8:12]) == ".FIT"
}

// Parse decodes a file of the given format
func Parse(format Format, blob []byte) (models.RawTrack, error) {
	switch format {
	case FormatGPX:
		return ParseGPX(blob)
	case FormatFIT:
		return ParseFIT(blob)
	default:
		return models.RawTrack{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
