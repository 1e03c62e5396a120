package errors

import (
	"strings"
	"unicode"
)

// Legend positions accepted by the rendering host.
var validPositions = map[string]bool{
	"topright":    true,
	"bottomright": true,
	"bottomleft":  true,
	"topleft":     true,
}

// ValidateLayerID validates a layer identifier for safety and correctness.
// Layer IDs travel verbatim into the widget payload and back through map
// events, so the rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No underscores (reserved as the event-name separator)
//   - Maximum length of 256 characters
func ValidateLayerID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidLayerID, "layer ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidLayerID, "layer ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLayerID, "layer ID contains invalid control characters")
		}
	}

	return nil
}

// ValidateGroup validates a group label. Groups share the layer ID rules
// except that an empty group is allowed (it means "no group").
func ValidateGroup(group string) error {
	if group == "" {
		return nil
	}
	if err := ValidateLayerID(group); err != nil {
		return New(ErrCodeInvalidInput, "invalid group label: %s", UserMessage(err))
	}
	return nil
}

// ValidatePosition validates a legend/control corner position.
func ValidatePosition(pos string) error {
	if !validPositions[pos] {
		return New(ErrCodeInvalidPosition,
			"invalid position: %q (must be one of: topright, bottomright, bottomleft, topleft)", pos)
	}
	return nil
}

// ValidateHexColor validates a CSS hex color string (#RGB, #RRGGBB or #RRGGBBAA).
func ValidateHexColor(s string) error {
	if s == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !strings.HasPrefix(s, "#") {
		return New(ErrCodeInvalidColor, "color must start with '#': %q", s)
	}
	hex := s[1:]
	switch len(hex) {
	case 3, 6, 8:
	default:
		return New(ErrCodeInvalidColor, "color must be #RGB, #RRGGBB or #RRGGBBAA: %q", s)
	}
	for _, r := range hex {
		if !isHexDigit(r) {
			return New(ErrCodeInvalidColor, "color contains non-hex digit: %q", s)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
