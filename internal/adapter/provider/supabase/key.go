package supabase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyInfo describes a Supabase API key. Supabase keys are JWTs whose payload
// names the Postgres role the key acts as ("anon" or "service_role") and the
// key's expiry.
type KeyInfo struct {
	Role      string
	ExpiresAt time.Time
}

// IsServiceRole reports whether the key bypasses row level security.
func (k KeyInfo) IsServiceRole() bool {
	return k.Role == "service_role"
}

// InspectKey decodes an API key without verifying its signature. The claims
// are never used for authorization decisions, only for startup logging and
// operator warnings, so an unverified parse is sufficient.
func InspectKey(key string) (KeyInfo, error) {
	token, _, err := jwt.NewParser().ParseUnverified(key, jwt.MapClaims{})
	if err != nil {
		return KeyInfo{}, fmt.Errorf("parse api key: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return KeyInfo{}, fmt.Errorf("parse api key: unexpected claims type %T", token.Claims)
	}

	var info KeyInfo
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
