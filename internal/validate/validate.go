// Package validate holds the normalization logic and the two pluggable
// predicates (C13) that the creation and resolution pipelines call out
// to: a creation-time hook (private-host/SSRF checks against a
// just-normalized URL) and a redirect-time hook (the same checks,
// defense-in-depth, against a URL already committed to the store).
// Grounded on original_source's UrlService.validateRawUrl/normalizeUrl
// and RedirectValidator.validateRedirectUrl.
package validate

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/Kalex-k/urlshortener/internal/apperr"
)

// Config mirrors UrlValidationProperties/RedirectValidationProperties.
type Config struct {
	MaxLength         int
	ForbiddenSchemes  []string
	BlacklistedDomains []string
}

// DefaultConfig matches spec.md §6's defaults.
func DefaultConfig() Config {
	return Config{
		MaxLength:        2048,
		ForbiddenSchemes: []string{"javascript", "data", "file", "about", "vbscript", "mailto", "tel"},
	}
}

func (c Config) normalized() Config {
	if c.MaxLength < 100 {
		c.MaxLength = 100
	}

	if c.MaxLength > 10000 {
		c.MaxLength = 10000
	}

	return c
}

// Hook is a pure predicate: it returns nil when url is acceptable and
// apperr.ErrInvalidURL (wrapped with a reason) otherwise. Both C9's
// creation-time hook and C10's redirect-time hook share this shape so
// either plug point can be swapped independently of the other.
type Hook func(ctx context.Context, url string) error

// ValidateRaw rejects a raw, pre-normalization URL: blank, too long,
// a forbidden scheme, or protocol-relative. Runs before any store access.
func ValidateRaw(raw string, cfg Config) error {
	cfg = cfg.normalized()

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fmt.Errorf("validate: %w: url is blank", apperr.ErrInvalidURL)
	}

	if len(trimmed) > cfg.MaxLength {
		return fmt.Errorf("validate: %w: url exceeds max length %d", apperr.ErrInvalidURL, cfg.MaxLength)
	}

	lower := strings.ToLower(trimmed)
	for _, scheme := range cfg.ForbiddenSchemes {
		if strings.HasPrefix(lower, strings.ToLower(scheme)+":") {
			return fmt.Errorf("validate: %w: scheme %q is forbidden", apperr.ErrInvalidURL, scheme)
		}
	}

	if strings.HasPrefix(trimmed, "//") {
		return fmt.Errorf("validate: %w: protocol-relative urls are not allowed", apperr.ErrInvalidURL)
	}

	return nil
}

// Normalize prepends "https://" to a raw URL with no scheme and no
// "://" substring, otherwise requires it already be http/https. It
// also enforces the host/path shape checks spec.md §4.9 step 2 names.
func Normalize(raw string, cfg Config) (string, error) {
	cfg = cfg.normalized()

	trimmed := strings.TrimSpace(raw)

	normalized := trimmed
	if !strings.HasPrefix(strings.ToLower(normalized), "http://") && !strings.HasPrefix(strings.ToLower(normalized), "https://") {
		if strings.Contains(normalized, "://") {
			return "", fmt.Errorf("validate: %w: only http and https schemes are allowed", apperr.ErrInvalidURL)
		}

		normalized = "https://" + normalized
	}

	host, path, err := schemeHostPath(normalized)
	if err != nil {
		return "", err
	}

	if host == "" {
		return "", fmt.Errorf("validate: %w: url must have a non-empty host", apperr.ErrInvalidURL)
	}

	if strings.Contains(host, "..") || strings.Contains(host, "//") {
		return "", fmt.Errorf("validate: %w: invalid host format %q", apperr.ErrInvalidURL, host)
	}

	if len(path) > cfg.MaxLength {
		return "", fmt.Errorf("validate: %w: path exceeds max length %d", apperr.ErrInvalidURL, cfg.MaxLength)
	}

	return normalized, nil
}

// schemeHostPath extracts host and path from a normalized http(s) URL
// without pulling in net/url's more permissive parsing of malformed
// inputs; it is intentionally strict about the "scheme://host[/path]" shape.
func schemeHostPath(u string) (host, path string, err error) {
	idx := strings.Index(u, "://")
	if idx < 0 {
		return "", "", fmt.Errorf("validate: %w: missing scheme separator", apperr.ErrInvalidURL)
	}

	rest := u[idx+3:]

	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return rest, "", nil
	}

	return rest[:slash], rest[slash:], nil
}

// CreationHook is C9's creation-time validation hook: rejects hosts
// that resolve to (or are spelled as) private, loopback, or any-local
// addresses. Grounded on UrlService.validateNotPrivate.
func CreationHook(_ context.Context, url string) error {
	return checkNotPrivate(url, "creation")
}

// RedirectHook is C10's redirect-time validation hook: the same
// private-host check plus a domain blacklist, run again even though
// the URL was already checked at creation time (defense in depth),
// grounded on RedirectValidator.validateRedirectUrl.
func RedirectHook(cfg Config) Hook {
	return func(_ context.Context, url string) error {
		if err := checkNotPrivate(url, "redirect"); err != nil {
			return err
		}

		host, _, err := schemeHostPath(url)
		if err != nil {
			return err
		}

		if isBlacklisted(host, cfg.BlacklistedDomains) {
			return fmt.Errorf("validate: %w: host %q is blacklisted", apperr.ErrInvalidURL, host)
		}

		return nil
	}
}

func checkNotPrivate(url, stage string) error {
	host, _, err := schemeHostPath(url)
	if err != nil {
		return err
	}

	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("validate: %w: %s: localhost is not allowed", apperr.ErrInvalidURL, stage)
	}

	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return fmt.Errorf("validate: %w: %s: private ip %q is not allowed", apperr.ErrInvalidURL, stage, host)
		}

		return nil
	}

	// Host is a name, not a literal IP: a resolvable host is also
	// checked against its resolved addresses, matching RedirectValidator's
	// InetAddress fallback. An unresolvable host is accepted here — DNS
	// failure is not evidence of maliciousness, and the caller's own
	// HTTP client will fail the same lookup again on dereference.
	addrs, lookupErr := net.LookupIP(host)
	if lookupErr != nil {
		return nil
	}

	for _, addr := range addrs {
		if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
			return fmt.Errorf("validate: %w: %s: host %q resolves to a private address", apperr.ErrInvalidURL, stage, host)
		}
	}

	return nil
}

func isBlacklisted(host string, domains []string) bool {
	lower := strings.ToLower(host)

	for _, d := range domains {
		dl := strings.ToLower(d)
		if lower == dl || strings.HasSuffix(lower, "."+dl) {
			return true
		}
	}

	return false
}
