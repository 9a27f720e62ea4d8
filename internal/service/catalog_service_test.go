package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobile-shop/internal/domain"
)

type prefixResolver struct {
	failOn string
}

func (r prefixResolver) Resolve(_ context.Context, ref string) (string, error) {
	if ref == r.failOn {
		return "", errors.New("cannot sign")
	}
	if strings.HasPrefix(ref, "http") {
		return ref, nil
	}
	return "https://cdn.test/" + ref, nil
}

func TestCatalogSearchDefaultsLimitAndResolvesPhotos(t *testing.T) {
	p := testProduct("One")
	p.Photos = []string{"one/front.jpg", "https://img.test/one.jpg", "broken.jpg"}
	products := newFakeProducts(p)
	svc := NewCatalogService(products, prefixResolver{failOn: "broken.jpg"}, nil)

	got, err := svc.Search(context.Background(), domain.ProductFilter{Brand: "bra"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.DefaultSearchLimit, products.lastQuery.Limit)
	assert.Equal(t, []string{"https://cdn.test/one/front.jpg", "https://img.test/one.jpg", "broken.jpg"}, got[0].Photos)

	stored, err := products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "one/front.jpg", stored.Photos[0])
}

func TestCatalogGet(t *testing.T) {
	p := testProduct("One")
	svc := NewCatalogService(newFakeProducts(p), nil, nil)
	ctx := context.Background()

	got, err := svc.Get(ctx, " "+p.ID+" ")
	require.NoError(t, err)
	assert.Equal(t, p.Model, got.Model)

	_, err = svc.Get(ctx, "123")
	require.ErrorIs(t, err, domain.ErrMalformedReference)

	_, err = svc.Get(ctx, testProduct("Missing").ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}
