package domain

import "fmt"

// Tenant identifies the (organization, user) pair an integration flow
// belongs to. Both IDs are opaque strings assigned by the host application.
// Every transient store entry is scoped to exactly one tenant.
type Tenant struct {
	OrgID  string `json:"org_id"`
	UserID string `json:"user_id"`
}

// Validate checks that both components are present.
func (t Tenant) Validate() error {
	if t.OrgID == "" || t.UserID == "" {
		return fmt.Errorf("%w: tenant requires org_id and user_id", ErrInvalidInput)
	}
	return nil
}

// Suffix returns the key suffix used to namespace store entries,
// "{org_id}:{user_id}".
func (t Tenant) Suffix() string {
	return t.OrgID + ":" + t.UserID
}

// StateKey returns the store key holding the pending authorization state
// for a provider.
func (t Tenant) StateKey(provider ProviderType) string {
	return string(provider) + "_state:" + t.Suffix()
}

// CredentialsKey returns the store key holding cached credentials for a
// provider.
func (t Tenant) CredentialsKey(provider ProviderType) string {
	return string(provider) + "_credentials:" + t.Suffix()
}
