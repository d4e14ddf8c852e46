package domain

// TokenClaims is the normalized claim set decoded from a bearer token.
// It is request-scoped and never persisted.
type TokenClaims struct {
	Username string
	Sub      string
	Email    string
}

// HasIdentity reports whether the claims can identify a user. A token that
// carries neither a username nor a subject id is useless for resolution and
// must be rejected as unauthenticated.
func (c *TokenClaims) HasIdentity() bool {
	return c != nil && (c.Username != "" || c.Sub != "")
}

// SignUpResult is the provider's answer to a registration request
type SignUpResult struct {
	UserSub       string
	UserConfirmed bool
}

// AuthTokens are the opaque session tokens issued by the identity provider.
// They are passed through to the caller unmodified.
type AuthTokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int32
}

// SignInResult pairs provider tokens with the reconciled local record
type SignInResult struct {
	Tokens AuthTokens
	User   *User
}

// ProviderUserInfo is the flattened profile the provider holds for an
// access token.
type ProviderUserInfo struct {
	Username      string
	UserSub       string
	Email         string
	Name          string
	EmailVerified bool
}
