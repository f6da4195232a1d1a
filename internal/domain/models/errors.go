package models

import "fmt"

// MaxBodyExcerpt bounds the upstream body carried inside errors.
const MaxBodyExcerpt = 300

// Excerpt trims body to at most MaxBodyExcerpt runes.
func Excerpt(body []byte) string {
	r := []rune(string(body))
	if len(r) <= MaxBodyExcerpt {
		return string(r)
	}
	return string(r[:MaxBodyExcerpt])
}

// UpstreamHTTPError is returned when a quote source answers with a non-success
// status or cannot be reached at all (StatusCode 0).
type UpstreamHTTPError struct {
	Exchange    string
	StatusCode  int
	BodyExcerpt string
	Err         error
}

func (e *UpstreamHTTPError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: upstream unavailable: %v", e.Exchange, e.Err)
	}
	return fmt.Sprintf("%s: upstream http %d: %s", e.Exchange, e.StatusCode, e.BodyExcerpt)
}

func (e *UpstreamHTTPError) Unwrap() error { return e.Err }

// UpstreamFormatError is returned when a payload is not a collection of rows.
type UpstreamFormatError struct {
	Exchange    string
	BodyExcerpt string
	Err         error
}

func (e *UpstreamFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed upstream payload (%v): %s", e.Exchange, e.Err, e.BodyExcerpt)
	}
	return fmt.Sprintf("%s: malformed upstream payload: %s", e.Exchange, e.BodyExcerpt)
}

func (e *UpstreamFormatError) Unwrap() error { return e.Err }
