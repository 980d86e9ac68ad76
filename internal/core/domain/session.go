package domain

import "errors"

var (
	// ErrAuthentication is returned when the backend rejects a login or cannot
	// be reached. Callers never learn which of the two happened.
	ErrAuthentication = errors.New("authentication failed")
	// ErrCorruptedSession marks persisted state holding only one half of the
	// credential/identity pair. It is repaired during hydration, never surfaced.
	ErrCorruptedSession = errors.New("corrupted session state")
)

// Durable storage keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Identity is the resolved operator behind the current credential.
type Identity struct {
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"name"`
}

// Session is a read-only snapshot of the console's authentication state.
// Credential and Identity are either both set or both nil.
type Session struct {
	Credential *string   `json:"-"`
	Identity   *Identity `json:"identity"`
	Hydrating  bool      `json:"hydrating"`
}

// Authenticated reports whether the snapshot carries a resolved identity.
func (s Session) Authenticated() bool {
	return !s.Hydrating && s.Identity != nil
}

// Token returns the credential or an empty string.
func (s Session) Token() string {
	if s.Credential == nil {
		return ""
	}
	return *s.Credential
}
