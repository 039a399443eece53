package media

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// allowedMIMETypes is the upload allow-list: images for card illustrations
// and audio for auscultation clips.
var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"audio/mpeg": true,
	"audio/wav":  true,
	"audio/ogg":  true,
	"audio/mp4":  true,
}

// DetectMIME sniffs the MIME type from file content. The client-declared
// Content-Type is never trusted.
func DetectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsAllowedMIME reports whether a sniffed MIME type is accepted for upload.
// Parameters (e.g. "; charset=") are stripped before matching.
func IsAllowedMIME(mime string) bool {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	return allowedMIMETypes[strings.TrimSpace(strings.ToLower(mime))]
}

// IsImageMIME reports whether the MIME type is an image, and therefore a
// blurhash candidate.
func IsImageMIME(mime string) bool {
	return strings.HasPrefix(mime, "image/")
}
