// Package service implements the cart/dislike engine on top of the profile
// store. Each operation is a single read-modify-write cycle under the store
// lock, so the duplicate/limit checks and the append they guard cannot be
// interleaved by concurrent handlers.
package service

import (
	"context"
	"log/slog"

	"github.com/maabuz/ishbot/core/logger"
	"github.com/maabuz/ishbot/internal/model"
	"github.com/maabuz/ishbot/internal/store"
)

// DefaultCartLimit bounds the cart when configuration does not override it.
const DefaultCartLimit = 2000

// Status is the outcome of a cart or dislike operation. These are domain
// outcomes, not errors: each maps to its own user-facing notice.
type Status string

const (
	StatusOK        Status = "ok"
	StatusDuplicate Status = "dup"
	StatusLimit     Status = "limit"
	StatusNotInCart Status = "not_in_cart"
)

// Carts mutates per-user cart and dislike lists.
type Carts struct {
	users *store.Users
	limit int
}

// NewCarts creates the engine; limit <= 0 selects DefaultCartLimit.
func NewCarts(users *store.Users, limit int) *Carts {
	if limit <= 0 {
		limit = DefaultCartLimit
	}
	return &Carts{users: users, limit: limit}
}

// Limit returns the configured cart capacity.
func (c *Carts) Limit() int {
	return c.limit
}

// Add appends jobID to the user's cart. Duplicate ids and a full cart leave
// the cart unchanged and report the corresponding status.
func (c *Carts) Add(ctx context.Context, tgID, jobID int64) (Status, error) {
	status := StatusOK
	_, err := c.users.Mutate(ctx, tgID, func(p *model.UserProfile) {
		switch {
		case p.InCart(jobID):
			status = StatusDuplicate
		case len(p.Cart) >= c.limit:
			status = StatusLimit
		default:
			p.Cart = append(p.Cart, jobID)
		}
	})
	if err != nil {
		return "", err
	}
	c.log(ctx, "cart.add", tgID, jobID, status)
	return status, nil
}

// Remove deletes jobID from the user's cart if present.
func (c *Carts) Remove(ctx context.Context, tgID, jobID int64) (Status, error) {
	status := StatusNotInCart
	_, err := c.users.Mutate(ctx, tgID, func(p *model.UserProfile) {
		for i, id := range p.Cart {
			if id == jobID {
				p.Cart = append(p.Cart[:i], p.Cart[i+1:]...)
				status = StatusOK
				return
			}
		}
	})
	if err != nil {
		return "", err
	}
	c.log(ctx, "cart.remove", tgID, jobID, status)
	return status, nil
}

// Dislike marks jobID as not interesting. Repeated dislikes report
// StatusDuplicate without mutating state. A disliked job already in the cart
// stays in the cart; the two lists are independent.
func (c *Carts) Dislike(ctx context.Context, tgID, jobID int64) (Status, error) {
	status := StatusOK
	_, err := c.users.Mutate(ctx, tgID, func(p *model.UserProfile) {
		if p.HasDisliked(jobID) {
			status = StatusDuplicate
			return
		}
		p.Disliked = append(p.Disliked, jobID)
	})
	if err != nil {
		return "", err
	}
	c.log(ctx, "cart.dislike", tgID, jobID, status)
	return status, nil
}

func (c *Carts) log(ctx context.Context, event string, tgID, jobID int64, status Status) {
	logger.SVCCart.LogAttrs(ctx, slog.LevelDebug, event,
		slog.String("event", event),
		slog.String("status", string(status)),
		slog.Int64("user_id", tgID),
		slog.Int64("job_id", jobID),
	)
}
