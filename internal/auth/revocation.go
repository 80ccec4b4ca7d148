package auth

import (
	"context"
	"time"
)

const revokedTokenKeyPrefix = "revoked_token:"

// KeyValueStore is the subset of the cache client the revocation list needs.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RevocationList records token IDs that must no longer authenticate.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// StoreRevocationList keeps revoked token IDs in a key-value store until the
// token would have expired anyway.
type StoreRevocationList struct {
	store KeyValueStore
}

// Ensure StoreRevocationList implements RevocationList
var _ RevocationList = (*StoreRevocationList)(nil)

// NewRevocationList creates a revocation list over store.
func NewRevocationList(store KeyValueStore) *StoreRevocationList {
	return &StoreRevocationList{store: store}
}

// Revoke marks tokenID as revoked for ttl.
func (l *StoreRevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	// Store a simple marker
	return l.store.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsRevoked checks if a token ID was revoked.
func (l *StoreRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := l.store.Get(ctx, revokedTokenKeyPrefix+tokenID)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}
