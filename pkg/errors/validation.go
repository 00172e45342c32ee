package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxQueryLength = 256
	maxCityLength  = 256
	maxURILength   = 2048
)

// ValidateQuery validates a table search query received from an untrusted
// caller (HTTP API, terminal input). Empty queries are valid and match all
// records.
func ValidateQuery(q string) error {
	if !utf8.ValidString(q) {
		return New(ErrCodeInvalidInput, "query is not valid UTF-8")
	}
	if utf8.RuneCountInString(q) > maxQueryLength {
		return New(ErrCodeInvalidInput, "query too long (max %d characters)", maxQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "query contains invalid control characters")
		}
	}
	return nil
}

// ValidateCity validates a city identifier used as a selection key.
func ValidateCity(city string) error {
	if strings.TrimSpace(city) == "" {
		return New(ErrCodeInvalidInput, "city cannot be empty")
	}
	if len(city) > maxCityLength {
		return New(ErrCodeInvalidInput, "city too long (max %d characters)", maxCityLength)
	}
	for _, r := range city {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "city contains invalid control characters")
		}
	}
	return nil
}

// ValidateSourceURI validates a dataset source reference: a file path or a
// sqlite://, mongodb:// or mongodb+srv:// URI.
func ValidateSourceURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidSource, "source cannot be empty")
	}
	if len(uri) > maxURILength {
		return New(ErrCodeInvalidSource, "source too long (max %d characters)", maxURILength)
	}
	if strings.ContainsRune(uri, '\x00') {
		return New(ErrCodeInvalidSource, "source contains null bytes")
	}
	if i := strings.Index(uri, "://"); i > 0 {
		switch uri[:i] {
		case "sqlite", "mongodb", "mongodb+srv":
		default:
			return New(ErrCodeInvalidSource, "unsupported source scheme: %q", uri[:i])
		}
	}
	return nil
}
