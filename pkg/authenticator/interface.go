package authenticator

import "time"

// TokenEngine signs and verifies short-lived tokens carrying an arbitrary
// object in their claims.
type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, out any) error
}
