package identity

import "context"

// StaticVerifier maps literal token strings to identities. It is the test
// double used throughout the server and service tests.
type StaticVerifier struct {
	// Tokens maps token string to the identity it asserts.
	Tokens map[string]Identity

	// Err, when set, is returned for every token not present in Tokens.
	// When nil, unknown tokens fail with ErrInvalidSignature.
	Err error
}

// NewStaticVerifier creates a StaticVerifier with a single token mapping.
func NewStaticVerifier(token string, id Identity) *StaticVerifier {
	return &StaticVerifier{Tokens: map[string]Identity{token: id}}
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if id, ok := v.Tokens[token]; ok {
		return &id, nil
	}
	if v.Err != nil {
		return nil, v.Err
	}
	return nil, ErrInvalidSignature
}
