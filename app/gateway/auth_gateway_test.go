package gateway

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-service/app/domain"
)

type fakeDriver struct {
	lastEmail string
	lastName  string
	lastCode  string
	err       error
}

func (f *fakeDriver) SignUp(_ context.Context, email, _, name string) (*domain.SignUpResult, error) {
	f.lastEmail, f.lastName = email, name
	if f.err != nil {
		return nil, f.err
	}
	return &domain.SignUpResult{UserSub: "sub-1", UserConfirmed: true}, nil
}

func (f *fakeDriver) ConfirmSignUp(_ context.Context, email, code string) error {
	f.lastEmail, f.lastCode = email, code
	return f.err
}

func (f *fakeDriver) SignIn(_ context.Context, email, _ string) (*domain.AuthTokens, error) {
	f.lastEmail = email
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AuthTokens{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 3600}, nil
}

func (f *fakeDriver) RefreshToken(_ context.Context, _, email string) (*domain.AuthTokens, error) {
	f.lastEmail = email
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AuthTokens{AccessToken: "at2", ExpiresIn: 3600}, nil
}

func (f *fakeDriver) GetUserInfo(_ context.Context, _ string) (*domain.ProviderUserInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ProviderUserInfo{Username: "user@example.com", UserSub: "sub-1"}, nil
}

func newTestGateway(driver *fakeDriver) *AuthGateway {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthGateway(driver, logger)
}

func TestAuthGateway_SignUpNormalizesEmail(t *testing.T) {
	driver := &fakeDriver{}
	gw := newTestGateway(driver)

	result, err := gw.SignUp(context.Background(), " New.User@Example.COM ", "pw", "New User")
	require.NoError(t, err)
	assert.Equal(t, "new.user@example.com", driver.lastEmail)
	assert.Equal(t, "sub-1", result.UserSub)
}

func TestAuthGateway_SignInNormalizesEmail(t *testing.T) {
	driver := &fakeDriver{}
	gw := newTestGateway(driver)

	tokens, err := gw.SignIn(context.Background(), "User@Example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", driver.lastEmail)
	assert.Equal(t, "at", tokens.AccessToken)
}

func TestAuthGateway_ConfirmSignUpPassesCode(t *testing.T) {
	driver := &fakeDriver{}
	gw := newTestGateway(driver)

	err := gw.ConfirmSignUp(context.Background(), "USER@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", driver.lastEmail)
	assert.Equal(t, "123456", driver.lastCode)
}

func TestAuthGateway_ErrorsPassThrough(t *testing.T) {
	wantErr := errors.New("provider down")
	driver := &fakeDriver{err: wantErr}
	gw := newTestGateway(driver)

	_, err := gw.SignIn(context.Background(), "user@example.com", "pw")
	assert.ErrorIs(t, err, wantErr)

	_, err = gw.RefreshToken(context.Background(), "rt", "user@example.com")
	assert.ErrorIs(t, err, wantErr)

	_, err = gw.GetUserInfo(context.Background(), "at")
	assert.ErrorIs(t, err, wantErr)
}
