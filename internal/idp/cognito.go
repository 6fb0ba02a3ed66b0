package idp

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoClient is the subset of the Cognito Identity Provider API used here.
type CognitoClient interface {
	SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	ConfirmSignUp(ctx context.Context, params *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	GetUser(ctx context.Context, params *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
}

// Cognito implements IdentityProvider against an AWS Cognito user pool.
type Cognito struct {
	client   CognitoClient
	clientID string
}

// NewCognito creates a Cognito-backed identity provider for the given app client.
func NewCognito(client CognitoClient, clientID string) *Cognito {
	return &Cognito{client: client, clientID: clientID}
}

// SignUp registers a new user in the pool with email, given and family name attributes.
func (c *Cognito) SignUp(ctx context.Context, email, password, firstName, lastName string) (*SignUpResult, error) {
	out, err := c.client.SignUp(ctx, &cip.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("given_name"), Value: aws.String(firstName)},
			{Name: aws.String("family_name"), Value: aws.String(lastName)},
		},
	})
	if err != nil {
		return nil, translateError(err)
	}

	return &SignUpResult{
		Sub:       aws.ToString(out.UserSub),
		Confirmed: out.UserConfirmed,
	}, nil
}

// Authenticate performs the USER_PASSWORD_AUTH flow.
func (c *Cognito) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	out, err := c.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, translateError(err)
	}

	return authResult(out.AuthenticationResult)
}

// ConfirmSignUp completes email verification.
func (c *Cognito) ConfirmSignUp(ctx context.Context, email, code string) error {
	_, err := c.client.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		return translateError(err)
	}

	return nil
}

// RefreshTokens performs the REFRESH_TOKEN_AUTH flow. Cognito does not rotate
// the refresh token in this flow, so AuthResult.RefreshToken stays empty.
func (c *Cognito) RefreshTokens(ctx context.Context, refreshToken string) (*AuthResult, error) {
	out, err := c.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeRefreshTokenAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": refreshToken,
		},
	})
	if err != nil {
		return nil, translateError(err)
	}

	return authResult(out.AuthenticationResult)
}

// GetUser resolves the pool identity behind an access token.
func (c *Cognito) GetUser(ctx context.Context, accessToken string) (*ProviderUser, error) {
	out, err := c.client.GetUser(ctx, &cip.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return nil, translateError(err)
	}

	u := &ProviderUser{}
	for _, attr := range out.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			u.Sub = aws.ToString(attr.Value)
		case "email":
			u.Email = aws.ToString(attr.Value)
		case "given_name":
			u.FirstName = aws.ToString(attr.Value)
		case "family_name":
			u.LastName = aws.ToString(attr.Value)
		}
	}

	if u.Sub == "" {
		return nil, fmt.Errorf("provider user has no sub attribute")
	}

	return u, nil
}

func authResult(res *types.AuthenticationResultType) (*AuthResult, error) {
	if res == nil {
		return nil, ErrNotAuthorized
	}

	return &AuthResult{
		AccessToken:  aws.ToString(res.AccessToken),
		IDToken:      aws.ToString(res.IdToken),
		RefreshToken: aws.ToString(res.RefreshToken),
		ExpiresIn:    int64(res.ExpiresIn),
	}, nil
}

// translateError maps Cognito API exceptions onto the package sentinels.
func translateError(err error) error {
	var (
		usernameExists   *types.UsernameExistsException
		invalidPassword  *types.InvalidPasswordException
		notAuthorized    *types.NotAuthorizedException
		userNotFound     *types.UserNotFoundException
		userNotConfirmed *types.UserNotConfirmedException
		codeMismatch     *types.CodeMismatchException
		expiredCode      *types.ExpiredCodeException
	)

	switch {
	case errors.As(err, &usernameExists):
		return ErrUserExists
	case errors.As(err, &invalidPassword):
		return ErrWeakPassword
	case errors.As(err, &notAuthorized):
		return ErrNotAuthorized
	case errors.As(err, &userNotFound):
		return ErrUserNotFound
	case errors.As(err, &userNotConfirmed):
		return ErrUserNotConfirmed
	case errors.As(err, &codeMismatch):
		return ErrCodeMismatch
	case errors.As(err, &expiredCode):
		return ErrCodeExpired
	default:
		return fmt.Errorf("identity provider: %w", err)
	}
}
