package ports

import "github.com/bnema/podwatch/internal/domain"

// SessionStore holds active wizard sessions keyed by (chat, user).
// Implementations must be safe for concurrent use. Expiry is the caller's
// concern: the store never inspects ExpiresAt.
type SessionStore interface {
	Get(key domain.SessionKey) (domain.Session, bool)
	Put(session domain.Session)
	Delete(key domain.SessionKey)
}
