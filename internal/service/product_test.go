package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ruzaikr/screencloud-takehome/internal/domain"
)

func setupProductService(t *testing.T) (*ProductService, *mockProductRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := &mockProductRepo{}
	svc := NewProductService(repo, client, time.Minute, newTestLogger())
	return svc, repo, mr
}

func catalogFixture() []domain.Product {
	return []domain.Product{
		{ID: "prod-1", Name: "SCOS Station P1 Pro", UnitPriceCents: 15000, WeightGrams: 365},
		{ID: "prod-2", Name: "SCOS Station P2", UnitPriceCents: 20000, WeightGrams: 433},
	}
}

func catalogDiscountsFixture() map[string][]domain.VolumeDiscount {
	return map[string][]domain.VolumeDiscount{
		"prod-1": {{ID: "disc-1", ProductID: "prod-1", ThresholdQty: 25, DiscountPct: 5}},
	}
}

func expectCatalogReads(repo *mockProductRepo) {
	repo.On("List", mock.Anything).Return(catalogFixture(), nil).Once()
	repo.On("GetDiscountsByProductIDs", mock.Anything, []string{"prod-1", "prod-2"}).
		Return(catalogDiscountsFixture(), nil).Once()
}

func TestProductService_ListProducts_CacheMissReadsDatabase(t *testing.T) {
	svc, repo, mr := setupProductService(t)

	expectCatalogReads(repo)

	catalog, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Len(t, catalog[0].Discounts, 1)
	assert.Empty(t, catalog[1].Discounts)

	// The listing must now be cached.
	cached, err := mr.Get(productListCacheKey)
	require.NoError(t, err)
	var fromCache []domain.CatalogProduct
	require.NoError(t, json.Unmarshal([]byte(cached), &fromCache))
	assert.Equal(t, catalog, fromCache)

	repo.AssertExpectations(t)
}

func TestProductService_ListProducts_CacheHitSkipsDatabase(t *testing.T) {
	svc, repo, mr := setupProductService(t)

	seed := []domain.CatalogProduct{
		{Product: catalogFixture()[0], Discounts: []domain.VolumeDiscount{}},
	}
	data, err := json.Marshal(seed)
	require.NoError(t, err)
	require.NoError(t, mr.Set(productListCacheKey, string(data)))

	catalog, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "prod-1", catalog[0].ID)

	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestProductService_ListProducts_CorruptCacheFallsThrough(t *testing.T) {
	svc, repo, mr := setupProductService(t)

	require.NoError(t, mr.Set(productListCacheKey, "{not json"))
	expectCatalogReads(repo)

	catalog, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog, 2)

	repo.AssertExpectations(t)
}

func TestProductService_ListProducts_CacheDownFallsThrough(t *testing.T) {
	svc, repo, mr := setupProductService(t)

	mr.Close()
	expectCatalogReads(repo)

	catalog, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog, 2)

	repo.AssertExpectations(t)
}

func TestProductService_ListProducts_DatabaseError(t *testing.T) {
	svc, repo, _ := setupProductService(t)

	repo.On("List", mock.Anything).Return(nil, errors.New("db read error"))

	catalog, err := svc.ListProducts(context.Background())
	assert.Nil(t, catalog)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "list products")
}

func TestProductService_ListProducts_NilCacheDisablesCaching(t *testing.T) {
	repo := &mockProductRepo{}
	svc := NewProductService(repo, nil, time.Minute, newTestLogger())

	repo.On("List", mock.Anything).Return(catalogFixture(), nil).Twice()
	repo.On("GetDiscountsByProductIDs", mock.Anything, []string{"prod-1", "prod-2"}).
		Return(catalogDiscountsFixture(), nil).Twice()

	for i := 0; i < 2; i++ {
		catalog, err := svc.ListProducts(context.Background())
		require.NoError(t, err)
		assert.Len(t, catalog, 2)
	}

	repo.AssertExpectations(t)
}
