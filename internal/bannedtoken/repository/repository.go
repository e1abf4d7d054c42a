// Package repository tracks revoked session tokens. Absence of an entry means
// "not banned"; TTL-capable backends must keep an entry alive at least as long
// as the token's own validity window, so a revoked token can never outlive its
// ban and become valid again.
package repository

import "context"

// Repository defines persistence for banned session tokens.
type Repository interface {
	// Ban marks token as revoked. Banning an already-banned token is a no-op success.
	Ban(ctx context.Context, token string) error
	// IsBanned reports whether token has a live ban entry.
	IsBanned(ctx context.Context, token string) (bool, error)
}
