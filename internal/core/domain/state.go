package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// StateTTL is how long a pending authorization state (and, later, the
// cached credentials) live in the store. The store entry is a handoff
// buffer between the authorize and callback requests, not durable storage.
const StateTTL = 10 * time.Minute

// AuthState is the anti-forgery record minted when an authorization flow
// starts. It round-trips through the third-party redirect as an opaque
// base64url blob and is matched against the stored copy on callback.
type AuthState struct {
	// State is the single-use random nonce (32 bytes, base64url encoded).
	State  string `json:"state"`
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
}

// Tenant returns the tenant embedded in the state blob.
func (s AuthState) Tenant() Tenant {
	return Tenant{OrgID: s.OrgID, UserID: s.UserID}
}

// Encode serializes the state into the opaque URL-safe form carried in the
// OAuth state query parameter.
func (s AuthState) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal auth state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeAuthState parses an encoded state blob back into its record.
// Failures mean the blob was tampered with or never came from us.
func DecodeAuthState(encoded string) (AuthState, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return AuthState{}, fmt.Errorf("%w: %v", ErrStateMismatch, err)
	}
	var s AuthState
	if err := json.Unmarshal(data, &s); err != nil {
		return AuthState{}, fmt.Errorf("%w: %v", ErrStateMismatch, err)
	}
	return s, nil
}
