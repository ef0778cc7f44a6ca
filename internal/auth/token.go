package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// OwnerToken resolves a bearer token to the owner identity by comparing it
// against a bcrypt hash supplied through configuration. The token itself is
// never stored.
type OwnerToken struct {
	owner string
	hash  []byte
}

// NewOwnerToken binds the owner identity to its token hash. An empty hash
// disables token resolution (dev mode relies on the requester header).
func NewOwnerToken(owner, tokenHash string) *OwnerToken {
	return &OwnerToken{owner: owner, hash: []byte(tokenHash)}
}

// Resolve returns the owner identity when the presented token matches.
func (o *OwnerToken) Resolve(token string) (string, bool) {
	if token == "" || len(o.hash) == 0 {
		return "", false
	}
	if err := bcrypt.CompareHashAndPassword(o.hash, []byte(token)); err != nil {
		return "", false
	}
	return o.owner, true
}

// Owner returns the identity the token resolves to.
func (o *OwnerToken) Owner() string {
	return o.owner
}

// Enabled reports whether a token hash is configured.
func (o *OwnerToken) Enabled() bool {
	return len(o.hash) > 0
}

// HashToken produces a bcrypt hash suitable for OWNER_TOKEN_HASH.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
