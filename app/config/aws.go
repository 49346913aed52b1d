package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// InitAWS loads the shared AWS configuration (env, shared files, or the
// execution role inside Lambda) pinned to region.
func InitAWS(ctx context.Context, region string) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}

// InitAnonymousAWS loads configuration that never looks up local
// credentials. Cognito's sign-in and identity calls are unauthenticated.
func InitAnonymousAWS(ctx context.Context, region string) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
}
