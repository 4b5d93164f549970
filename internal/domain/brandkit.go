package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxBrandColors caps the palette size.
	MaxBrandColors = 5
	// MaxLogoBytes caps the accepted logo size before any upload is attempted.
	MaxLogoBytes = 2 * 1024 * 1024
)

var hexColorRegexp = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// BrandKit is an optional logo plus color palette applied to generation
// prompts for stylistic consistency. It is one of the two persisted entities.
type BrandKit struct {
	Logo   string   `json:"logo,omitempty"` // data URL, empty when unset
	Colors []string `json:"colors"`
}

// AddColor appends a hex color, normalizing case and rejecting duplicates and
// palette overflow.
func (k *BrandKit) AddColor(color string) error {
	normalized := strings.ToUpper(strings.TrimSpace(color))
	if !strings.HasPrefix(normalized, "#") {
		normalized = "#" + normalized
	}
	if !hexColorRegexp.MatchString(normalized) {
		return fmt.Errorf("%w: %q is not a hex color", ErrInvalidInput, color)
	}
	for _, existing := range k.Colors {
		if existing == normalized {
			return nil
		}
	}
	if len(k.Colors) >= MaxBrandColors {
		return fmt.Errorf("%w: at most %d brand colors", ErrInvalidInput, MaxBrandColors)
	}
	k.Colors = append(k.Colors, normalized)
	return nil
}

// RemoveColor drops a color from the palette if present.
func (k *BrandKit) RemoveColor(color string) {
	normalized := strings.ToUpper(strings.TrimSpace(color))
	filtered := k.Colors[:0]
	for _, c := range k.Colors {
		if c != normalized {
			filtered = append(filtered, c)
		}
	}
	k.Colors = filtered
}

// HasLogo reports whether a logo is set.
func (k *BrandKit) HasLogo() bool {
	return strings.TrimSpace(k.Logo) != ""
}

// IsEmpty reports whether the kit carries nothing to apply.
func (k *BrandKit) IsEmpty() bool {
	return !k.HasLogo() && len(k.Colors) == 0
}

// Reset returns the kit to its documented initial value. Resetting twice is
// equivalent to resetting once.
func (k *BrandKit) Reset() {
	k.Logo = ""
	k.Colors = nil
}

// Normalize rewrites a kit loaded from storage into canonical form: colors
// uppercased, deduplicated, and capped, invalid entries dropped.
func (k *BrandKit) Normalize() {
	var cleaned BrandKit
	cleaned.Logo = k.Logo
	for _, c := range k.Colors {
		_ = cleaned.AddColor(c)
	}
	k.Colors = cleaned.Colors
}
