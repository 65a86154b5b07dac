package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
	"github.com/dawaa-dev/backend-dawaa/internal/pricing"
)

type fakeQuerier struct {
	items     []Item
	listCalls int
}

func (f *fakeQuerier) ListItems(_ context.Context, params ListParams) ([]Item, int, error) {
	f.listCalls++
	return f.items, len(f.items), nil
}

func (f *fakeQuerier) GetItem(_ context.Context, id uuid.UUID) (Item, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return Item{}, ErrNotFound
}

func testItem(name string, category pricing.Category) Item {
	return Item{
		ID:       uuid.New(),
		Name:     name,
		Price:    100,
		Category: category,
		InStock:  true,
	}
}

func newCachedService(t *testing.T, q Querier) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Service{Q: q, Redis: client, CacheTTL: time.Minute}
}

func TestListCachesDefaultPage(t *testing.T) {
	q := &fakeQuerier{items: []Item{testItem("Paracetamol", pricing.CategoryOTC)}}
	svc := newCachedService(t, q)
	ctx := context.Background()

	first, err := svc.List(ctx, ListParams{Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, first.Items, 1)

	second, err := svc.List(ctx, ListParams{Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Equal(t, first.Total, second.Total)
	require.Equal(t, 1, q.listCalls, "default page should be served from cache on the second call")
}

func TestListFilteredBypassesCache(t *testing.T) {
	q := &fakeQuerier{items: []Item{testItem("Vitamin C", pricing.CategorySupplement)}}
	svc := newCachedService(t, q)
	ctx := context.Background()

	_, err := svc.List(ctx, ListParams{Search: "vit", Page: 1, PerPage: 20})
	require.NoError(t, err)
	_, err = svc.List(ctx, ListParams{Search: "vit", Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Equal(t, 2, q.listCalls)
}

func TestGetNotFound(t *testing.T) {
	svc := &Service{Q: &fakeQuerier{}}
	_, err := svc.Get(context.Background(), uuid.New())
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "ITEM_NOT_FOUND", appErr.Code)
	require.Equal(t, 404, appErr.HTTPStatus)
}

func TestResolveItems(t *testing.T) {
	item := testItem("Paracetamol", pricing.CategoryOTC)
	svc := &Service{Q: &fakeQuerier{items: []Item{item}}}

	resolved, err := svc.ResolveItems(context.Background(), []uuid.UUID{item.ID})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	got := resolved[item.ID.String()]
	require.Equal(t, item.Name, got.Name)
	require.Equal(t, item.Price, got.Price)
	require.Equal(t, item.Category, got.Category)
}

func TestResolveItemsUnknownID(t *testing.T) {
	svc := &Service{Q: &fakeQuerier{}}
	_, err := svc.ResolveItems(context.Background(), []uuid.UUID{uuid.New()})
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, 422, appErr.HTTPStatus)
}
