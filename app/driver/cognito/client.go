package cognito

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"

	"identity-service/app/config"
)

// Client wraps the Cognito identity provider API client together with the
// pool settings every call needs.
type Client struct {
	api          *cognitoidentityprovider.Client
	userPoolID   string
	clientID     string
	clientSecret string
	logger       *slog.Logger
}

// NewClient creates a Cognito client from service configuration. When
// COGNITO_ENDPOINT_URL is set the client talks to that endpoint instead of
// the regional AWS one, which is how local stacks are wired in.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	api := cognitoidentityprovider.NewFromConfig(awsCfg, func(o *cognitoidentityprovider.Options) {
		if cfg.CognitoEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.CognitoEndpointURL)
		}
	})

	logger.Info("Cognito client initialized",
		"region", cfg.AWSRegion,
		"user_pool_id", cfg.CognitoUserPoolID,
		"custom_endpoint", cfg.CognitoEndpointURL != "")

	return &Client{
		api:          api,
		userPoolID:   cfg.CognitoUserPoolID,
		clientID:     cfg.CognitoClientID,
		clientSecret: cfg.CognitoClientSecret,
		logger:       logger.With("component", "cognito_client"),
	}, nil
}

// API returns the underlying Cognito API client
func (c *Client) API() *cognitoidentityprovider.Client {
	return c.api
}

// SecretHash computes the per-username secret hash the pool client requires
// when it is configured with a client secret. Returns the empty string when
// no secret is configured.
func (c *Client) SecretHash(username string) string {
	if c.clientSecret == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(c.clientSecret))
	mac.Write([]byte(username + c.clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
