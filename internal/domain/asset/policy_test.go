package asset

import (
	"errors"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFor(t *testing.T) {
	t.Run("every valid category has a policy", func(t *testing.T) {
		for _, c := range []Category{
			CategoryProduct, CategoryProductAlt, CategoryProductVariant,
			CategoryBanner, CategoryMiniBanner, CategoryBrandLogo,
			CategoryUserAvatar, CategoryPageAsset,
		} {
			p, err := PolicyFor(c)
			require.NoError(t, err, "category %s", c)
			assert.Positive(t, p.MaxBytes)
		}
	})

	t.Run("only the main product image is multi-size", func(t *testing.T) {
		p, err := PolicyFor(CategoryProduct)
		require.NoError(t, err)
		assert.True(t, p.MultiSize)

		p, err = PolicyFor(CategoryProductAlt)
		require.NoError(t, err)
		assert.False(t, p.MultiSize)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := PolicyFor(Category("bogus"))

		assert.Error(t, err)
	})
}

func TestPolicyValidate(t *testing.T) {
	policy, err := PolicyFor(CategoryBanner)
	require.NoError(t, err)

	t.Run("accepts an image within the size cap", func(t *testing.T) {
		assert.NoError(t, policy.Validate(1024, "image/png"))
	})

	t.Run("accepts mixed-case content types", func(t *testing.T) {
		assert.NoError(t, policy.Validate(1024, "IMAGE/JPEG"))
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		err := policy.Validate(0, "image/png")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_FILE_SIZE", domainErr.Code)
	})

	t.Run("rejects oversized payload", func(t *testing.T) {
		err := policy.Validate(policy.MaxBytes+1, "image/png")

		assert.ErrorIs(t, err, shared.ErrPayloadTooLarge)
	})

	t.Run("rejects disallowed content type", func(t *testing.T) {
		err := policy.Validate(1024, "application/pdf")

		assert.ErrorIs(t, err, shared.ErrUnsupportedMediaType)
	})

	t.Run("rejects svg", func(t *testing.T) {
		err := policy.Validate(1024, "image/svg+xml")

		assert.ErrorIs(t, err, shared.ErrUnsupportedMediaType)
	})

	t.Run("small categories carry a tighter cap", func(t *testing.T) {
		avatar, err := PolicyFor(CategoryUserAvatar)
		require.NoError(t, err)
		assert.Less(t, avatar.MaxBytes, policy.MaxBytes)

		assert.ErrorIs(t, avatar.Validate(avatar.MaxBytes+1, "image/png"), shared.ErrPayloadTooLarge)
	})
}
