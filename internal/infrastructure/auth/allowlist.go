package auth

import "context"

// AdminAllowlist answers whether a normalized email belongs to a privileged
// caller. The lookup is a key-existence check against the store on every
// request; there is deliberately no in-memory cache so that grants and
// revokes take effect promptly.
type AdminAllowlist interface {
	IsAllowed(ctx context.Context, email string) (bool, error)
}
