package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// URL validation errors
var (
	ErrInvalidURL       = errors.New("invalid URL format")
	ErrDisallowedScheme = errors.New("URL scheme not allowed")
)

// URLConstraints defines validation constraints for URLs.
type URLConstraints struct {
	AllowedSchemes []string // e.g., []string{"https", "http"}; empty allows any scheme
	MaxLength      int      // Maximum URL length (0 = no limit)
}

// AbsoluteURLConstraints accepts any absolute URL regardless of scheme.
var AbsoluteURLConstraints = URLConstraints{}

// WebOriginConstraints accepts http and https URLs, as used for browser origins.
var WebOriginConstraints = URLConstraints{
	AllowedSchemes: []string{"https", "http"},
	MaxLength:      2048,
}

// hierarchicalSchemes must carry a host to be well formed.
var hierarchicalSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ws":    true,
	"wss":   true,
}

// URL validates that urlStr is an absolute URL satisfying the constraints.
// Returns the trimmed URL string and an error if validation fails.
//
// An absolute URL has a scheme and either a host (http://example.com) or an
// opaque part (mailto:someone@example.com, data:image/png;base64,...).
// Relative references such as "not a url" or "/images/a.png" are rejected.
func URL(urlStr string, constraints URLConstraints) (string, error) {
	urlStr = strings.TrimSpace(urlStr)

	if urlStr == "" {
		return "", ErrEmpty
	}

	if constraints.MaxLength > 0 && len(urlStr) > constraints.MaxLength {
		return "", fmt.Errorf("%w: URL exceeds %d characters", ErrStringTooLong, constraints.MaxLength)
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if parsedURL.Scheme == "" {
		return "", fmt.Errorf("%w: missing scheme", ErrInvalidURL)
	}

	if len(constraints.AllowedSchemes) > 0 {
		schemeAllowed := false
		for _, scheme := range constraints.AllowedSchemes {
			if parsedURL.Scheme == scheme {
				schemeAllowed = true
				break
			}
		}
		if !schemeAllowed {
			return "", fmt.Errorf("%w: got %q, allowed: %v", ErrDisallowedScheme, parsedURL.Scheme, constraints.AllowedSchemes)
		}
	}

	if hierarchicalSchemes[parsedURL.Scheme] {
		if parsedURL.Hostname() == "" && !hostAfterScheme(urlStr, parsedURL.Scheme) {
			return "", fmt.Errorf("%w: missing hostname", ErrInvalidURL)
		}
		return urlStr, nil
	}

	if parsedURL.Host == "" && parsedURL.Opaque == "" && parsedURL.Path == "" {
		return "", fmt.Errorf("%w: empty URL body", ErrInvalidURL)
	}

	return urlStr, nil
}

// hostAfterScheme reports whether a hierarchical URL written with missing or
// extra slashes, such as "http:example.com/a.png", still names a host once
// the slashes are normalized the way browsers do.
func hostAfterScheme(urlStr, scheme string) bool {
	rest := strings.TrimLeft(urlStr[len(scheme)+1:], "/\\")
	if rest == "" {
		return false
	}
	u, err := url.Parse(scheme + "://" + rest)
	return err == nil && u.Hostname() != ""
}

// Origin validates a browser origin such as https://app.example.com.
func Origin(origin string) (string, error) {
	return URL(origin, WebOriginConstraints)
}
