package asset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	t.Run("builds category-prefixed key with salt and extension", func(t *testing.T) {
		key, err := Key(KeyInput{
			Category: CategoryBanner,
			OwnerKey: "summer-sale",
			Ext:      "png",
			Salt:     "1700000000000_abcd1234",
		})

		require.NoError(t, err)
		assert.Equal(t, "banner/summer-sale_1700000000000_abcd1234.png", key)
	})

	t.Run("includes disambiguator between owner and salt", func(t *testing.T) {
		key, err := Key(KeyInput{
			Category:      CategoryProductVariant,
			OwnerKey:      "STYLE-001",
			Disambiguator: "red",
			Ext:           "webp",
			Salt:          "000042",
		})

		require.NoError(t, err)
		assert.Equal(t, "product-variant/STYLE-001_red_000042.webp", key)
	})

	t.Run("generates distinct keys on repeated calls", func(t *testing.T) {
		in := KeyInput{Category: CategoryBanner, OwnerKey: "hero", Ext: "jpg"}

		seen := make(map[string]bool)
		for i := 0; i < 20; i++ {
			key, err := Key(in)
			require.NoError(t, err)
			assert.False(t, seen[key], "key %q generated twice", key)
			seen[key] = true
		}
	})

	t.Run("defaults missing extension to jpg", func(t *testing.T) {
		key, err := Key(KeyInput{Category: CategoryUserAvatar, OwnerKey: "user-1", Salt: "x"})

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(key, ".jpg"))
	})

	t.Run("normalizes extension case and leading dot", func(t *testing.T) {
		key, err := Key(KeyInput{Category: CategoryUserAvatar, OwnerKey: "user-1", Ext: ".PNG", Salt: "x"})

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(key, ".png"))
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := Key(KeyInput{Category: Category("bogus"), OwnerKey: "a"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "category")
	})

	t.Run("rejects empty owner key", func(t *testing.T) {
		_, err := Key(KeyInput{Category: CategoryBanner, OwnerKey: "   "})

		assert.Error(t, err)
	})

	t.Run("rejects owner keys with path separators", func(t *testing.T) {
		for _, owner := range []string{"a/b", `a\b`, "../escape"} {
			_, err := Key(KeyInput{Category: CategoryBanner, OwnerKey: owner})
			assert.Error(t, err, "owner %q should be rejected", owner)
		}
	})
}

func TestSizedKey(t *testing.T) {
	t.Run("renditions share the salt and differ only by size suffix", func(t *testing.T) {
		in := KeyInput{
			Category: CategoryProduct,
			OwnerKey: "STYLE-100",
			Ext:      "jpg",
			Salt:     NewSalt(CategoryProduct),
		}

		keys := make([]string, 0, len(SizeVariants))
		for _, size := range SizeVariants {
			key, err := SizedKey(in, size)
			require.NoError(t, err)
			keys = append(keys, key)
		}

		require.Len(t, keys, 3)
		assert.Equal(t, "product/STYLE-100_"+in.Salt+"_l.jpg", keys[0])
		assert.Equal(t, "product/STYLE-100_"+in.Salt+"_m.jpg", keys[1])
		assert.Equal(t, "product/STYLE-100_"+in.Salt+"_s.jpg", keys[2])
	})

	t.Run("requires an explicit salt", func(t *testing.T) {
		_, err := SizedKey(KeyInput{Category: CategoryProduct, OwnerKey: "STYLE-100"}, SizeLarge)

		assert.Error(t, err)
	})
}

func TestPrefix(t *testing.T) {
	t.Run("matches every salt and size of the asset", func(t *testing.T) {
		prefix, err := Prefix(CategoryProduct, "STYLE-100", "")
		require.NoError(t, err)
		assert.Equal(t, "product/STYLE-100_", prefix)

		in := KeyInput{Category: CategoryProduct, OwnerKey: "STYLE-100", Ext: "jpg", Salt: "123456"}
		key, err := SizedKey(in, SizeMedium)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(key, prefix))
	})

	t.Run("includes disambiguator", func(t *testing.T) {
		prefix, err := Prefix(CategoryProductVariant, "STYLE-100", "blue")

		require.NoError(t, err)
		assert.Equal(t, "product-variant/STYLE-100_blue_", prefix)
	})

	t.Run("rejects invalid owner key", func(t *testing.T) {
		_, err := Prefix(CategoryProduct, "", "")

		assert.Error(t, err)
	})
}

func TestNewSalt(t *testing.T) {
	t.Run("versioned categories get sortable timestamped salts", func(t *testing.T) {
		salt := NewSalt(CategoryBanner)

		parts := strings.SplitN(salt, "_", 2)
		require.Len(t, parts, 2)
		assert.Greater(t, len(parts[0]), 10, "expected millisecond timestamp")
		assert.Len(t, parts[1], 8)
	})

	t.Run("non-versioned categories get fixed-width numeric salts", func(t *testing.T) {
		salt := NewSalt(CategoryProduct)

		assert.Len(t, salt, 6)
		assert.NotContains(t, salt, "_")
	})
}
