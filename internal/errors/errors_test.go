package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderCarriesComponentAndContext(t *testing.T) {
	base := fmt.Errorf("connection refused")
	err := New(base).
		Component("weather").
		Category(CategoryNetwork).
		Context("provider", "openmeteo").
		Build()

	assert.Equal(t, "weather", err.Component)
	assert.Equal(t, string(CategoryNetwork), err.GetCategory())
	assert.Equal(t, "openmeteo", err.GetContext()["provider"])
	assert.ErrorContains(t, err, "connection refused")
	assert.False(t, err.GetTimestamp().IsZero())
}

func TestBuilderDefaultsComponent(t *testing.T) {
	err := Newf("bare error").Build()
	assert.Equal(t, ComponentUnknown, err.Component)
}

func TestIsMatchesWrappedSentinel(t *testing.T) {
	sentinel := NewStd("unknown species")
	err := New(fmt.Errorf("%w: %q", sentinel, "marlin")).
		Component("spots").
		Category(CategoryRanking).
		Build()

	assert.True(t, Is(err, sentinel))
}

func TestIsMatchesCategory(t *testing.T) {
	a := Newf("first").Category(CategoryValidation).Build()
	b := Newf("second").Category(CategoryValidation).Build()
	c := Newf("third").Category(CategoryNetwork).Build()

	// EnhancedError targets compare by category.
	assert.True(t, Is(a, b))
	assert.False(t, Is(a, c))
}

func TestIsCategory(t *testing.T) {
	err := Newf("no results").Category(CategoryFusion).Build()

	assert.True(t, IsCategory(err, CategoryFusion))
	assert.False(t, IsCategory(err, CategoryDatabase))
	assert.False(t, IsCategory(fmt.Errorf("plain"), CategoryFusion))
}

func TestIsCategorySeesThroughWrapping(t *testing.T) {
	inner := Newf("not here").Category(CategoryNotFound).Build()
	wrapped := fmt.Errorf("lookup failed: %w", inner)

	assert.True(t, IsNotFound(wrapped))
}

func TestValidationErrorHelper(t *testing.T) {
	err := ValidationError("confidence out of range")
	require.NotNil(t, err)
	assert.True(t, IsCategory(err, CategoryValidation))
}
