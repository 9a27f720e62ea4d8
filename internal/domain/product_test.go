package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductIDForIsStable(t *testing.T) {
	a := ProductIDFor("SAMSUNG", "GALAXY M31S", "Mirage Black", "8 GB", "128 GB")
	b := ProductIDFor("samsung", "galaxy m31s", "mirage black", "8 gb", "128 gb")
	c := ProductIDFor("SAMSUNG", "GALAXY M31S", "Mirage Blue", "8 GB", "128 GB")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, ValidProductID(a))
}

func TestValidProductID(t *testing.T) {
	assert.True(t, ValidProductID("8f0d6c9e-4f64-4a5e-9b1f-2f7b6f1d3c21"))
	assert.False(t, ValidProductID(""))
	assert.False(t, ValidProductID("not-an-id"))
	assert.False(t, ValidProductID("8f0d6c9e4f644a5e9b1f2f7b6f1d3c21"))
	assert.False(t, ValidProductID("507f1f77bcf86cd799439011"))
}

func TestSplitPhotos(t *testing.T) {
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, SplitPhotos("a.jpg\n\n b.jpg \n"))
	assert.Nil(t, SplitPhotos(""))
	assert.Equal(t, "a.jpg\nb.jpg", JoinPhotos([]string{"a.jpg", "b.jpg"}))
}

func TestParseSortField(t *testing.T) {
	assert.Equal(t, SortPrice, ParseSortField("price"))
	assert.Equal(t, SortRating, ParseSortField(" Rating "))
	assert.Equal(t, SortNone, ParseSortField("name"))
}

func TestMalformedReferenceMatchesProductNotFound(t *testing.T) {
	assert.True(t, errors.Is(ErrMalformedReference, ErrProductNotFound))
	assert.False(t, errors.Is(ErrProductNotFound, ErrMalformedReference))
}
