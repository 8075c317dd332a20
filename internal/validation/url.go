package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// FeedURLValidator validates user-supplied source and relay URLs
// before newsdeck ever issues a request to them.
type FeedURLValidator struct {
	// AllowLocalhost determines if localhost URLs are permitted
	AllowLocalhost bool
	// AllowPrivateIPs determines if private IP addresses are permitted
	AllowPrivateIPs bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewFeedURLValidator creates a new validator with secure defaults
func NewFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{
		AllowLocalhost:  false,
		AllowPrivateIPs: false,
		MaxLength:       2048,
	}
}

// NewPermissiveFeedURLValidator creates a validator that allows local
// development setups (a relay on localhost, a feed served from LAN).
func NewPermissiveFeedURLValidator() *FeedURLValidator {
	return &FeedURLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// ValidateAndNormalize validates a URL and returns the normalized form.
func (v *FeedURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}

	if strings.ContainsAny(input, "<>\"'`") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	// Add protocol if missing (default to HTTPS)
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}

	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}

	if err := v.validateHost(parsedURL.Host); err != nil {
		return "", err
	}

	if strings.Contains(parsedURL.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	return parsedURL.String(), nil
}

func (v *FeedURLValidator) validateHost(host string) error {
	hostname := host
	if strings.Contains(host, ":") {
		var err error
		hostname, _, err = net.SplitHostPort(host)
		if err != nil {
			return fmt.Errorf("invalid host format: %w", err)
		}
	}

	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}

	if !v.AllowPrivateIPs {
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}

	return nil
}

func isLocalhost(hostname string) bool {
	return hostname == "localhost" ||
		hostname == "127.0.0.1" ||
		hostname == "::1" ||
		strings.HasSuffix(hostname, ".localhost")
}

func isPrivateIP(ip net.IP) bool {
	private := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16", // Link-local
		"127.0.0.0/8",    // Loopback
	}

	for _, cidr := range private {
		_, block, _ := net.ParseCIDR(cidr)
		if block != nil && block.Contains(ip) {
			return true
		}
	}

	if ip.To4() == nil { // IPv6: unique local (fc00::/7) and link-local (fe80::/10)
		s := ip.String()
		return strings.HasPrefix(s, "fc") ||
			strings.HasPrefix(s, "fd") ||
			strings.HasPrefix(s, "fe8") ||
			strings.HasPrefix(s, "fe9") ||
			strings.HasPrefix(s, "fea") ||
			strings.HasPrefix(s, "feb")
	}

	return false
}
