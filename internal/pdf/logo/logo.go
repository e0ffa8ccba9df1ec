// Package logo loads company logos from object storage for embedding in
// generated documents.
package logo

import (
	"bytes"
	"errors"
	"net/url"
	"path"
	"strings"
)

// Kind names an image format understood by the PDF backend.
type Kind string

const (
	KindPNG  Kind = "PNG"
	KindJPEG Kind = "JPG"
)

var (
	// ErrNoURL is returned when the company has no logo configured.
	ErrNoURL = errors.New("logo: no url")
	// ErrUnsupportedFormat is returned for images that are neither PNG nor JPEG.
	ErrUnsupportedFormat = errors.New("logo: unsupported image format")
)

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// Image is a fetched logo ready to embed.
type Image struct {
	Data []byte
	Kind Kind
}

// Sniff decides the image kind. The URL extension wins when the bytes agree
// with it; otherwise the content is probed for PNG and then JPEG signatures.
func Sniff(rawURL string, data []byte) (Kind, error) {
	byExt := kindFromExtension(rawURL)
	byMagic, magicOK := kindFromMagic(data)
	switch {
	case byExt != "" && (!magicOK || byMagic == byExt):
		return byExt, nil
	case magicOK:
		return byMagic, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func kindFromExtension(rawURL string) Kind {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".png":
		return KindPNG
	case ".jpg", ".jpeg":
		return KindJPEG
	default:
		return ""
	}
}

func kindFromMagic(data []byte) (Kind, bool) {
	if bytes.HasPrefix(data, pngMagic) {
		return KindPNG, true
	}
	if bytes.HasPrefix(data, jpegMagic) {
		return KindJPEG, true
	}
	return "", false
}
