package cognito

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "identity-service/app/utils/errors"
)

const (
	testIssuer   = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_testpool"
	testClientID = "client-abc"
)

type validatorFixture struct {
	validator *TokenValidator
	key       *rsa.PrivateKey
}

func newValidatorFixture(t *testing.T) *validatorFixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	kf := func(token *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return &validatorFixture{
		validator: newTokenValidatorWithKeyfunc(kf, testIssuer, testClientID, logger),
		key:       key,
	}
}

func (f *validatorFixture) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":       testIssuer,
		"sub":       "sub-1234",
		"username":  "user@example.com",
		"token_use": "access",
		"client_id": testClientID,
		"exp":       time.Now().Add(time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}
}

func TestTokenValidator_ValidAccessToken(t *testing.T) {
	f := newValidatorFixture(t)

	claims, err := f.validator.Validate(context.Background(), f.sign(t, baseClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Username)
	assert.Equal(t, "sub-1234", claims.Sub)
}

func TestTokenValidator_IDTokenUsername(t *testing.T) {
	f := newValidatorFixture(t)

	raw := baseClaims()
	delete(raw, "username")
	delete(raw, "client_id")
	raw["cognito:username"] = "user@example.com"
	raw["email"] = "user@example.com"
	raw["token_use"] = "id"

	claims, err := f.validator.Validate(context.Background(), f.sign(t, raw))
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Username)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestTokenValidator_ExpiredToken(t *testing.T) {
	f := newValidatorFixture(t)

	raw := baseClaims()
	raw["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := f.validator.Validate(context.Background(), f.sign(t, raw))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTokenExpired, apperrors.GetErrorCode(err))
}

func TestTokenValidator_WrongIssuer(t *testing.T) {
	f := newValidatorFixture(t)

	raw := baseClaims()
	raw["iss"] = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_otherpool"

	_, err := f.validator.Validate(context.Background(), f.sign(t, raw))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, apperrors.GetErrorCode(err))
}

func TestTokenValidator_WrongClient(t *testing.T) {
	f := newValidatorFixture(t)

	raw := baseClaims()
	raw["client_id"] = "someone-else"

	_, err := f.validator.Validate(context.Background(), f.sign(t, raw))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, apperrors.GetErrorCode(err))
}

func TestTokenValidator_MissingIdentity(t *testing.T) {
	f := newValidatorFixture(t)

	raw := baseClaims()
	delete(raw, "username")
	delete(raw, "sub")

	_, err := f.validator.Validate(context.Background(), f.sign(t, raw))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, apperrors.GetErrorCode(err))
}

func TestTokenValidator_WrongSigningKey(t *testing.T) {
	f := newValidatorFixture(t)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, baseClaims())
	signed, err := token.SignedString(otherKey)
	require.NoError(t, err)

	_, err = f.validator.Validate(context.Background(), signed)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, apperrors.GetErrorCode(err))
}

func TestTokenValidator_UnsignedTokenRejected(t *testing.T) {
	f := newValidatorFixture(t)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, baseClaims())
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = f.validator.Validate(context.Background(), signed)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, apperrors.GetErrorCode(err))
}

func TestTokenValidator_Garbage(t *testing.T) {
	f := newValidatorFixture(t)

	_, err := f.validator.Validate(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, apperrors.GetErrorCode(err))
}
