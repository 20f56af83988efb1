package driven

// TokenVerifier validates the service tokens presented by the host
// application on the tenant-facing endpoints.
type TokenVerifier interface {
	// ParseToken validates a bearer token and returns its subject
	// (the calling service's identity).
	ParseToken(token string) (string, error)
}
