package cognito

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"identity-service/app/domain"
)

// Adapter exposes the identity provider operations the service needs.
// Email addresses double as pool usernames, so every call keys on email.
type Adapter struct {
	client      *Client
	autoConfirm bool
	logger      *slog.Logger
}

// NewAdapter creates a Cognito adapter. With autoConfirm enabled, freshly
// registered accounts are confirmed administratively so local setups work
// without a mail sender.
func NewAdapter(client *Client, autoConfirm bool, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:      client,
		autoConfirm: autoConfirm,
		logger:      logger.With("component", "cognito_adapter"),
	}
}

// SignUp registers a new account in the user pool
func (a *Adapter) SignUp(ctx context.Context, email, password, name string) (*domain.SignUpResult, error) {
	attributes := []types.AttributeType{
		{Name: aws.String("email"), Value: aws.String(email)},
	}
	if name != "" {
		attributes = append(attributes, types.AttributeType{
			Name: aws.String("name"), Value: aws.String(name),
		})
	}

	input := &cognitoidentityprovider.SignUpInput{
		ClientId:       aws.String(a.client.clientID),
		Username:       aws.String(email),
		Password:       aws.String(password),
		UserAttributes: attributes,
	}
	if hash := a.client.SecretHash(email); hash != "" {
		input.SecretHash = aws.String(hash)
	}

	output, err := a.client.api.SignUp(ctx, input)
	if err != nil {
		a.logger.Error("sign-up rejected by provider", "error", err)
		return nil, translateError(err)
	}

	result := &domain.SignUpResult{
		UserSub:       aws.ToString(output.UserSub),
		UserConfirmed: output.UserConfirmed,
	}

	if a.autoConfirm && !result.UserConfirmed {
		if err := a.adminConfirm(ctx, email); err != nil {
			// Confirmation can still happen through the code flow
			a.logger.Warn("auto-confirm failed, account left unconfirmed", "error", err)
		} else {
			result.UserConfirmed = true
		}
	}

	a.logger.Info("account registered", "user_sub", result.UserSub, "confirmed", result.UserConfirmed)
	return result, nil
}

// ConfirmSignUp confirms an account with the emailed verification code
func (a *Adapter) ConfirmSignUp(ctx context.Context, email, code string) error {
	input := &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(a.client.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	}
	if hash := a.client.SecretHash(email); hash != "" {
		input.SecretHash = aws.String(hash)
	}

	if _, err := a.client.api.ConfirmSignUp(ctx, input); err != nil {
		a.logger.Error("confirmation rejected by provider", "error", err)
		return translateError(err)
	}

	a.logger.Info("account confirmed")
	return nil
}

// SignIn authenticates with email and password and returns session tokens
func (a *Adapter) SignIn(ctx context.Context, email, password string) (*domain.AuthTokens, error) {
	params := map[string]string{
		"USERNAME": email,
		"PASSWORD": password,
	}
	if hash := a.client.SecretHash(email); hash != "" {
		params["SECRET_HASH"] = hash
	}

	output, err := a.client.api.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(a.client.clientID),
		AuthParameters: params,
	})
	if err != nil {
		a.logger.Warn("sign-in rejected by provider", "error", err)
		return nil, translateError(err)
	}

	return authTokens(output.AuthenticationResult)
}

// RefreshToken exchanges a refresh token for fresh session tokens. The
// secret hash is keyed on the original email.
func (a *Adapter) RefreshToken(ctx context.Context, refreshToken, email string) (*domain.AuthTokens, error) {
	params := map[string]string{
		"REFRESH_TOKEN": refreshToken,
	}
	if hash := a.client.SecretHash(email); hash != "" {
		params["SECRET_HASH"] = hash
	}

	output, err := a.client.api.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeRefreshTokenAuth,
		ClientId:       aws.String(a.client.clientID),
		AuthParameters: params,
	})
	if err != nil {
		a.logger.Warn("token refresh rejected by provider", "error", err)
		return nil, translateError(err)
	}

	tokens, err := authTokens(output.AuthenticationResult)
	if err != nil {
		return nil, err
	}
	// Refresh responses omit the refresh token itself; keep the current one
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

// GetUserInfo fetches the pool profile behind an access token
func (a *Adapter) GetUserInfo(ctx context.Context, accessToken string) (*domain.ProviderUserInfo, error) {
	output, err := a.client.api.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		a.logger.Warn("user info lookup rejected by provider", "error", err)
		return nil, translateError(err)
	}

	info := &domain.ProviderUserInfo{
		Username: aws.ToString(output.Username),
	}
	for _, attr := range output.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			info.UserSub = aws.ToString(attr.Value)
		case "email":
			info.Email = aws.ToString(attr.Value)
		case "name":
			info.Name = aws.ToString(attr.Value)
		case "email_verified":
			info.EmailVerified = aws.ToString(attr.Value) == "true"
		}
	}

	return info, nil
}

func (a *Adapter) adminConfirm(ctx context.Context, email string) error {
	_, err := a.client.api.AdminConfirmSignUp(ctx, &cognitoidentityprovider.AdminConfirmSignUpInput{
		UserPoolId: aws.String(a.client.userPoolID),
		Username:   aws.String(email),
	})
	return err
}

func authTokens(result *types.AuthenticationResultType) (*domain.AuthTokens, error) {
	if result == nil {
		// Challenge responses (MFA, forced password change) are not supported
		return nil, fmt.Errorf("authentication requires a challenge response")
	}
	return &domain.AuthTokens{
		AccessToken:  aws.ToString(result.AccessToken),
		IDToken:      aws.ToString(result.IdToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
	}, nil
}
