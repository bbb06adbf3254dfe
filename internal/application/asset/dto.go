package asset

import (
	domain "github.com/storefront/backend/internal/domain/asset"
)

// UploadInput carries one asset payload plus its identifying attributes.
type UploadInput struct {
	Category      domain.Category
	OwnerKey      string
	Disambiguator string
	Ext           string
	ContentType   string
	Data          []byte
}

// UploadResult reports where the uploaded bytes landed. Multi-size
// categories fill URLs/Paths (large, medium, small order); the single
// URL/Path always points at the primary (large) rendition.
type UploadResult struct {
	URL   string   `json:"url"`
	Path  string   `json:"path"`
	URLs  []string `json:"urls,omitempty"`
	Paths []string `json:"paths,omitempty"`
}
