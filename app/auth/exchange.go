package auth

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ci "github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
)

// CredentialExchanger trades an id token for temporary signing credentials.
type CredentialExchanger interface {
	Exchange(ctx context.Context, idToken string) (aws.Credentials, error)
}

// IdentityPoolAPI is the part of the Cognito identity client used here.
type IdentityPoolAPI interface {
	GetId(ctx context.Context, in *ci.GetIdInput, optFns ...func(*ci.Options)) (*ci.GetIdOutput, error)
	GetCredentialsForIdentity(ctx context.Context, in *ci.GetCredentialsForIdentityInput, optFns ...func(*ci.Options)) (*ci.GetCredentialsForIdentityOutput, error)
}

var _ IdentityPoolAPI = (*ci.Client)(nil)

// CognitoIdentityPool exchanges user pool id tokens at a Cognito identity pool.
type CognitoIdentityPool struct {
	client         IdentityPoolAPI
	identityPoolID string
	loginsKey      string
}

// NewCognitoIdentityPool creates an exchanger trusting tokens from userPoolID.
func NewCognitoIdentityPool(client IdentityPoolAPI, region, userPoolID, identityPoolID string) *CognitoIdentityPool {
	return &CognitoIdentityPool{
		client:         client,
		identityPoolID: identityPoolID,
		loginsKey:      fmt.Sprintf("cognito-idp.%s.amazonaws.com/%s", region, userPoolID),
	}
}

// Exchange resolves the caller's identity id, then fetches credentials for it.
func (p *CognitoIdentityPool) Exchange(ctx context.Context, idToken string) (aws.Credentials, error) {
	logins := map[string]string{p.loginsKey: idToken}

	id, err := p.client.GetId(ctx, &ci.GetIdInput{
		IdentityPoolId: aws.String(p.identityPoolID),
		Logins:         logins,
	})
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("get identity id: %w", err)
	}

	out, err := p.client.GetCredentialsForIdentity(ctx, &ci.GetCredentialsForIdentityInput{
		IdentityId: id.IdentityId,
		Logins:     logins,
	})
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("get credentials for identity: %w", err)
	}
	if out.Credentials == nil {
		return aws.Credentials{}, fmt.Errorf("identity %s: no credentials returned", aws.ToString(id.IdentityId))
	}

	creds := aws.Credentials{
		AccessKeyID:     aws.ToString(out.Credentials.AccessKeyId),
		SecretAccessKey: aws.ToString(out.Credentials.SecretKey),
		SessionToken:    aws.ToString(out.Credentials.SessionToken),
		Source:          "CognitoIdentityPool",
	}
	if out.Credentials.Expiration != nil {
		creds.CanExpire = true
		creds.Expires = *out.Credentials.Expiration
	}
	return creds, nil
}
