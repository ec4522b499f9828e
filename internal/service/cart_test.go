package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maabuz/ishbot/internal/store"
)

func newTestCarts(t *testing.T, limit int) *Carts {
	t.Helper()
	users := store.NewUsers(filepath.Join(t.TempDir(), "users.json"))
	return NewCarts(users, limit)
}

func TestAddAndDuplicate(t *testing.T) {
	ctx := context.Background()
	carts := newTestCarts(t, 0)

	status, err := carts.Add(ctx, 1, 100)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = carts.Add(ctx, 1, 100)
	require.NoError(t, err)
	require.Equal(t, StatusDuplicate, status)
}

func TestAddRespectsLimit(t *testing.T) {
	ctx := context.Background()
	carts := newTestCarts(t, 2)

	for _, id := range []int64{1, 2} {
		status, err := carts.Add(ctx, 7, id)
		require.NoError(t, err)
		require.Equal(t, StatusOK, status)
	}

	status, err := carts.Add(ctx, 7, 3)
	require.NoError(t, err)
	require.Equal(t, StatusLimit, status)

	// A duplicate of an existing item still reports duplicate, not limit.
	status, err = carts.Add(ctx, 7, 1)
	require.NoError(t, err)
	require.Equal(t, StatusDuplicate, status)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	carts := newTestCarts(t, 0)

	_, err := carts.Add(ctx, 3, 50)
	require.NoError(t, err)

	status, err := carts.Remove(ctx, 3, 50)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = carts.Remove(ctx, 3, 50)
	require.NoError(t, err)
	require.Equal(t, StatusNotInCart, status)
}

func TestDislikeKeepsCartEntry(t *testing.T) {
	ctx := context.Background()
	users := store.NewUsers(filepath.Join(t.TempDir(), "users.json"))
	carts := NewCarts(users, 0)

	_, err := carts.Add(ctx, 9, 11)
	require.NoError(t, err)

	status, err := carts.Dislike(ctx, 9, 11)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = carts.Dislike(ctx, 9, 11)
	require.NoError(t, err)
	require.Equal(t, StatusDuplicate, status)

	p, err := users.GetOrCreate(ctx, 9)
	require.NoError(t, err)
	require.True(t, p.InCart(11), "dislike must not evict the cart entry")
	require.True(t, p.HasDisliked(11))
}

func TestConcurrentCartAdds(t *testing.T) {
	ctx := context.Background()
	users := store.NewUsers(filepath.Join(t.TempDir(), "users.json"))
	carts := NewCarts(users, 0)

	const adds = 30
	var wg sync.WaitGroup
	errs := make(chan error, adds)
	for i := 0; i < adds; i++ {
		id := int64(i + 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := carts.Add(ctx, 77, id)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := users.GetOrCreate(ctx, 77)
	require.NoError(t, err)
	require.Len(t, p.Cart, adds)
}
