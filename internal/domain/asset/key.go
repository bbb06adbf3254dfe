package asset

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// KeyInput identifies the asset a storage key is generated for.
type KeyInput struct {
	Category Category
	// OwnerKey identifies the parent entity (product style ID, banner
	// name, user ID, ...).
	OwnerKey string
	// Disambiguator distinguishes sibling assets under one owner
	// (color, size, alternate index). Optional.
	Disambiguator string
	// Ext is the file extension without the leading dot.
	Ext string
	// Salt overrides the generated uniqueness salt. Leave empty in
	// normal operation; repeated calls must yield distinct keys.
	Salt string
}

func (in KeyInput) validate() error {
	if !in.Category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown asset category")
	}
	if strings.TrimSpace(in.OwnerKey) == "" {
		return shared.NewDomainError("INVALID_OWNER_KEY", "Owner key cannot be empty")
	}
	if strings.ContainsAny(in.OwnerKey, "/\\") || strings.Contains(in.OwnerKey, "..") {
		return shared.NewDomainError("INVALID_OWNER_KEY", "Owner key cannot contain path separators")
	}
	return nil
}

// NewSalt generates the uniqueness salt for a category. Versioned
// categories get a sortable {unixMillis}_{shortID} pair; the rest get a
// fixed-width numeric string. Two calls never intentionally collide,
// which trades overwrite safety for stale files that DeleteOldVersions
// must clean up.
func NewSalt(category Category) string {
	p, err := PolicyFor(category)
	if err == nil && p.Versioned {
		return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), uuid.New().String()[:8])
	}
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// Key builds the storage key {category}/{owner}[_{disambiguator}]_{salt}.{ext}.
func Key(in KeyInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	salt := in.Salt
	if salt == "" {
		salt = NewSalt(in.Category)
	}
	return fmt.Sprintf("%s_%s.%s", stem(in), salt, normalizeExt(in.Ext)), nil
}

// SizedKey builds the storage key for one size rendition. Renditions of
// the same logical image must be built with the same salt so they form
// a deletable set.
func SizedKey(in KeyInput, size SizeVariant) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	if in.Salt == "" {
		return "", shared.NewDomainError("INVALID_SALT", "Size variants require an explicit shared salt")
	}
	return fmt.Sprintf("%s_%s_%s.%s", stem(in), in.Salt, size, normalizeExt(in.Ext)), nil
}

// Prefix returns the salt-independent listing prefix for an asset, used
// to find every stored version of a logical asset regardless of salt or
// size suffix.
func Prefix(category Category, ownerKey, disambiguator string) (string, error) {
	in := KeyInput{Category: category, OwnerKey: ownerKey, Disambiguator: disambiguator}
	if err := in.validate(); err != nil {
		return "", err
	}
	return stem(in) + "_", nil
}

func stem(in KeyInput) string {
	s := in.Category.Prefix() + "/" + in.OwnerKey
	if in.Disambiguator != "" {
		s += "_" + in.Disambiguator
	}
	return s
}

func normalizeExt(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}
