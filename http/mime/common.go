package mime

import (
	"strings"
)

type MIME = string

const (
	OctetStream    MIME = "application/octet-stream"
	Plain          MIME = "text/plain"
	HTML           MIME = "text/html"
	JSON           MIME = "application/json"
	FormUrlencoded MIME = "application/x-www-form-urlencoded"
	Multipart      MIME = "multipart/form-data"
)

// Class is the coarse kind of request body, derived from the Content-Type header.
type Class uint8

const (
	// ClassNone means no Content-Type was presented.
	ClassNone Class = iota
	// ClassText covers text/* bodies.
	ClassText
	// ClassURLEncoded is application/x-www-form-urlencoded.
	ClassURLEncoded
	// ClassMultipart covers multipart/* bodies.
	ClassMultipart
	// ClassOther is anything else, e.g. application/json.
	ClassOther
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassText:
		return "text"
	case ClassURLEncoded:
		return "urlencoded"
	case ClassMultipart:
		return "multipart"
	default:
		return "other"
	}
}

// Classify returns the body class of the Content-Type value and, for multipart values,
// the boundary token. The boundary is everything after the first equality sign with
// all the quotes removed.
func Classify(contentType string) (class Class, boundary string) {
	switch {
	case strings.HasPrefix(contentType, "text/"):
		return ClassText, ""
	case strings.HasPrefix(contentType, FormUrlencoded):
		return ClassURLEncoded, ""
	case strings.HasPrefix(contentType, "multipart/"):
		boundary = contentType[strings.IndexByte(contentType, '=')+1:]
		return ClassMultipart, strings.ReplaceAll(boundary, `"`, "")
	default:
		return ClassOther, ""
	}
}
