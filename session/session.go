// Package session keeps the one authoritative cart and checkout state per
// shopper behind a key-value storage port.
package session

import (
	"context"
	"time"

	"github.com/shopswift/storefront/checkout"
	"github.com/shopswift/storefront/models"
)

// Session is everything a shopper accumulates between page loads.
type Session struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id,omitempty"`
	Cart      models.Cart   `json:"cart"`
	Checkout  checkout.Flow `json:"checkout"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// New returns an empty session with a fresh checkout flow.
func New(id, userID string) *Session {
	return &Session{
		ID:       id,
		UserID:   userID,
		Cart:     models.Cart{},
		Checkout: checkout.New(),
	}
}

// Store persists sessions. Get returns (nil, nil) when id is unknown.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
