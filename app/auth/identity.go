package auth

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ciptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// IdentityProvider signs users in and renews their sessions.
type IdentityProvider interface {
	SignIn(ctx context.Context, username, password string) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

// UserPoolAPI is the part of the Cognito user pool client used here.
type UserPoolAPI interface {
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
}

var _ UserPoolAPI = (*cip.Client)(nil)

// CognitoUserPool authenticates against a Cognito user pool app client with
// the USER_PASSWORD_AUTH flow.
type CognitoUserPool struct {
	client   UserPoolAPI
	clientID string
}

// NewCognitoUserPool creates an IdentityProvider for the given app client.
func NewCognitoUserPool(client UserPoolAPI, clientID string) *CognitoUserPool {
	return &CognitoUserPool{client: client, clientID: clientID}
}

// SignIn exchanges a username and password for a session.
func (p *CognitoUserPool) SignIn(ctx context.Context, username, password string) (Session, error) {
	out, err := p.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: ciptypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(p.clientID),
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return Session{}, authError("sign in failed", err)
	}
	return sessionFromOutput(out)
}

// Refresh renews the id and access tokens. Cognito does not rotate the
// refresh token, so the result carries none.
func (p *CognitoUserPool) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	out, err := p.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: ciptypes.AuthFlowTypeRefreshTokenAuth,
		ClientId: aws.String(p.clientID),
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": refreshToken,
		},
	})
	if err != nil {
		return Session{}, authError("session refresh failed", err)
	}
	return sessionFromOutput(out)
}

func sessionFromOutput(out *cip.InitiateAuthOutput) (Session, error) {
	if out.ChallengeName != "" {
		return Session{}, authError(fmt.Sprintf("sign in needs challenge %s, which this client does not support", out.ChallengeName), nil)
	}
	res := out.AuthenticationResult
	if res == nil || aws.ToString(res.IdToken) == "" || aws.ToString(res.AccessToken) == "" {
		return Session{}, authError("identity provider returned no tokens", nil)
	}
	return Session{
		IDToken:      aws.ToString(res.IdToken),
		AccessToken:  aws.ToString(res.AccessToken),
		RefreshToken: aws.ToString(res.RefreshToken),
	}, nil
}
