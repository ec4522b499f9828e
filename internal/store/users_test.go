package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maabuz/ishbot/internal/model"
)

func newTestUsers(t *testing.T) (*Users, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return NewUsers(path), path
}

func TestGetOrCreatePersistsDefaultProfile(t *testing.T) {
	ctx := context.Background()
	users, path := newTestUsers(t)

	p, err := users.GetOrCreate(ctx, 1001)
	require.NoError(t, err)
	require.Equal(t, int64(1001), p.TelegramID)
	require.Equal(t, int64(1), p.ID)
	require.False(t, p.Registered)
	require.Empty(t, p.Cart)

	// The default profile must already be on disk.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var stored map[string]model.UserProfile
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Contains(t, stored, "1001")
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users, _ := newTestUsers(t)

	first, err := users.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	again, err := users.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestMutateSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	users, path := newTestUsers(t)

	_, err := users.Mutate(ctx, 42, func(p *model.UserProfile) {
		p.Lang = model.LocaleRussian
		p.Cart = append(p.Cart, 5)
	})
	require.NoError(t, err)

	reopened := NewUsers(path)
	p, err := reopened.GetOrCreate(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, model.LocaleRussian, p.Lang)
	require.Equal(t, []int64{5}, p.Cart)
}

func TestMutateCreatesMissingProfile(t *testing.T) {
	ctx := context.Background()
	users, _ := newTestUsers(t)

	p, err := users.Mutate(ctx, 9, func(p *model.UserProfile) {
		p.Registered = true
	})
	require.NoError(t, err)
	require.True(t, p.Registered)
	require.Equal(t, int64(9), p.TelegramID)
}

func TestCountOnMissingFile(t *testing.T) {
	users, _ := newTestUsers(t)
	n, err := users.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestConcurrentMutatesLoseNoWrites(t *testing.T) {
	ctx := context.Background()
	users, _ := newTestUsers(t)

	const writers = 20
	done := make(chan error, writers)
	for i := 0; i < writers; i++ {
		id := int64(i + 1)
		go func() {
			_, err := users.Mutate(ctx, 500, func(p *model.UserProfile) {
				p.Cart = append(p.Cart, id)
			})
			done <- err
		}()
	}
	for i := 0; i < writers; i++ {
		require.NoError(t, <-done)
	}

	p, err := users.GetOrCreate(ctx, 500)
	require.NoError(t, err)
	require.Len(t, p.Cart, writers)
}
