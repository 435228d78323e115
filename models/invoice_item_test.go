package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeDescription(t *testing.T) {
	composed := ComposeDescription("Banner", "Vinyl", "Storefront sign")
	assert.Equal(t, "Banner (Vinyl) - Storefront sign", composed)
}

func TestSplitDescription(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		composed := ComposeDescription("Banner", "Vinyl", "Storefront sign")
		itemName, materialName, freeText := SplitDescription(composed)
		assert.Equal(t, "Banner", itemName)
		assert.Equal(t, "Vinyl", materialName)
		assert.Equal(t, "Storefront sign", freeText)
	})

	t.Run("MissingMaterial", func(t *testing.T) {
		itemName, materialName, freeText := SplitDescription("Banner - Storefront sign")
		assert.Equal(t, "Banner", itemName)
		assert.Equal(t, "Unknown", materialName)
		assert.Equal(t, "Storefront sign", freeText)
	})

	t.Run("EmptyFreeText", func(t *testing.T) {
		composed := ComposeDescription("Board", "Acrylic", "")
		itemName, materialName, freeText := SplitDescription(composed)
		assert.Equal(t, "Board", itemName)
		assert.Equal(t, "Acrylic", materialName)
		assert.Equal(t, "", freeText)
	})

	t.Run("NoSeparator", func(t *testing.T) {
		itemName, materialName, freeText := SplitDescription("Board (Acrylic)")
		assert.Equal(t, "Board", itemName)
		assert.Equal(t, "Acrylic", materialName)
		assert.Equal(t, "", freeText)
	})

	t.Run("FreeTextWithSeparator", func(t *testing.T) {
		composed := ComposeDescription("Board", "Acrylic", "front - back")
		itemName, materialName, freeText := SplitDescription(composed)
		assert.Equal(t, "Board", itemName)
		assert.Equal(t, "Acrylic", materialName)
		assert.Equal(t, "front - back", freeText)
	})
}

func TestIsValidUOM(t *testing.T) {
	for _, code := range []string{UOMSquareCentimeter, UOMSquareFoot, UOMCount, UOMMeter} {
		assert.True(t, IsValidUOM(code), code)
	}
	assert.False(t, IsValidUOM("kg"))
	assert.False(t, IsValidUOM(""))
}

func TestIsAreaUOM(t *testing.T) {
	assert.True(t, IsAreaUOM(UOMSquareCentimeter))
	assert.True(t, IsAreaUOM(UOMSquareFoot))
	assert.False(t, IsAreaUOM(UOMCount))
	assert.False(t, IsAreaUOM(UOMMeter))
}
