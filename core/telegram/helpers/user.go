package helpers

import "context"

// CurrentProfile resolves a Telegram user ID to a domain profile via a store
// that implements GetOrCreate. The generic type T allows different bots to
// supply their own profile model.
func CurrentProfile[T any](
	ctx context.Context,
	store interface {
		GetOrCreate(context.Context, int64) (T, error)
	},
	tgID int64,
) (T, error) {
	var zero T
	if store == nil {
		return zero, nil
	}
	return store.GetOrCreate(ctx, tgID)
}
