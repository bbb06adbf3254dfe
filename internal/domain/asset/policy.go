package asset

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// imageContentTypes is the allow-list for image categories. SVG is
// excluded: it can carry scripts and inline event handlers.
var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Policy holds the per-category validation and storage rules.
type Policy struct {
	MaxBytes     int64
	AllowedTypes map[string]bool
	// MultiSize categories upload large/medium/small renditions sharing
	// one salt.
	MultiSize bool
	// Versioned categories use a timestamp+id salt instead of the
	// fixed-width numeric one.
	Versioned bool
}

const (
	maxImageBytes = 10 << 20
	maxSmallBytes = 5 << 20
)

var policies = map[Category]Policy{
	CategoryProduct:        {MaxBytes: maxImageBytes, AllowedTypes: imageContentTypes, MultiSize: true},
	CategoryProductAlt:     {MaxBytes: maxImageBytes, AllowedTypes: imageContentTypes},
	CategoryProductVariant: {MaxBytes: maxImageBytes, AllowedTypes: imageContentTypes},
	CategoryBanner:         {MaxBytes: maxImageBytes, AllowedTypes: imageContentTypes, Versioned: true},
	CategoryMiniBanner:     {MaxBytes: maxSmallBytes, AllowedTypes: imageContentTypes, Versioned: true},
	CategoryBrandLogo:      {MaxBytes: maxSmallBytes, AllowedTypes: imageContentTypes, Versioned: true},
	CategoryUserAvatar:     {MaxBytes: maxSmallBytes, AllowedTypes: imageContentTypes, Versioned: true},
	CategoryPageAsset:      {MaxBytes: maxImageBytes, AllowedTypes: imageContentTypes, Versioned: true},
}

// PolicyFor returns the validation policy for a category.
func PolicyFor(category Category) (Policy, error) {
	p, ok := policies[category]
	if !ok {
		return Policy{}, shared.NewDomainError("INVALID_CATEGORY", "Unknown asset category")
	}
	return p, nil
}

// Validate checks a payload against the policy.
func (p Policy) Validate(size int64, contentType string) error {
	if size <= 0 {
		return shared.NewDomainError("INVALID_FILE_SIZE", "File size must be greater than 0")
	}
	if size > p.MaxBytes {
		return shared.ErrPayloadTooLarge
	}
	if !p.AllowedTypes[strings.ToLower(contentType)] {
		return shared.ErrUnsupportedMediaType
	}
	return nil
}
