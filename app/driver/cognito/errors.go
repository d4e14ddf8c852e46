package cognito

import (
	"errors"

	"github.com/aws/smithy-go"

	apperrors "identity-service/app/utils/errors"
)

// providerMessages maps Cognito error codes to the messages returned to
// API callers. Codes not listed fall back to a generic message so internal
// detail never leaks.
var providerMessages = map[string]string{
	"UsernameExistsException":         "an account with this email already exists",
	"InvalidPasswordException":        "password does not meet requirements",
	"InvalidParameterException":       "invalid input provided",
	"CodeMismatchException":           "invalid verification code",
	"ExpiredCodeException":            "verification code has expired",
	"UserNotConfirmedException":       "account is not confirmed. Please verify your email",
	"UserNotFoundException":           "incorrect email or password",
	"NotAuthorizedException":          "incorrect email or password",
	"PasswordResetRequiredException":  "password reset is required",
	"TooManyRequestsException":        "too many requests. Please try again later",
	"TooManyFailedAttemptsException":  "too many failed attempts. Please try again later",
	"LimitExceededException":          "attempt limit exceeded. Please try again later",
	"AliasExistsException":            "an account with this email already exists",
	"CodeDeliveryFailureException":    "failed to send verification code",
	"ResourceNotFoundException":       "authentication service is misconfigured",
	"InvalidLambdaResponseException":  "authentication service is misconfigured",
	"UnexpectedLambdaException":       "authentication service is misconfigured",
	"UserLambdaValidationException":   "registration was rejected",
}

const genericProviderMessage = "authentication service error. Please try again"

// translateError converts an AWS SDK error into a provider error carrying a
// user-facing message. Non-API errors (timeouts, connection failures) become
// internal errors instead.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return apperrors.Wrap(apperrors.ErrCodeInternalError, "identity provider unreachable", err)
	}

	code := apiErr.ErrorCode()
	message, known := providerMessages[code]
	if !known {
		message = genericProviderMessage
	}

	return apperrors.NewProviderError(code, message, err)
}
