package asset

// Category identifies the kind of asset being stored. It determines the
// validation policy and the storage path prefix.
type Category string

const (
	CategoryProduct        Category = "product"
	CategoryProductAlt     Category = "product-alt"
	CategoryProductVariant Category = "product-variant"
	CategoryBanner         Category = "banner"
	CategoryMiniBanner     Category = "mini-banner"
	CategoryBrandLogo      Category = "brand-logo"
	CategoryUserAvatar     Category = "user-avatar"
	CategoryPageAsset      Category = "page-asset"
)

// IsValid checks if the category is a known one
func (c Category) IsValid() bool {
	switch c {
	case CategoryProduct, CategoryProductAlt, CategoryProductVariant,
		CategoryBanner, CategoryMiniBanner, CategoryBrandLogo,
		CategoryUserAvatar, CategoryPageAsset:
		return true
	default:
		return false
	}
}

// Prefix returns the storage path prefix for the category
func (c Category) Prefix() string {
	return string(c)
}

// Platform identifies the storage backend in effect for a deployment.
type Platform string

const (
	PlatformLocal Platform = "local"
	PlatformCloud Platform = "cloud"
)

// IsValid checks if the platform is a known one
func (p Platform) IsValid() bool {
	return p == PlatformLocal || p == PlatformCloud
}

// ParsePlatform parses a platform tag. Unknown values fall back to the
// provided default rather than erroring; platform resolution favors
// availability over strictness.
func ParsePlatform(s string, fallback Platform) Platform {
	p := Platform(s)
	if p.IsValid() {
		return p
	}
	return fallback
}

// SizeVariant is the suffix distinguishing the three renditions of a
// main product image. Variants generated from one upload share a salt,
// so they can be deleted as a matched set by prefix.
type SizeVariant string

const (
	SizeLarge  SizeVariant = "l"
	SizeMedium SizeVariant = "m"
	SizeSmall  SizeVariant = "s"
)

// SizeVariants lists the variants produced for multi-size categories,
// largest first.
var SizeVariants = []SizeVariant{SizeLarge, SizeMedium, SizeSmall}
