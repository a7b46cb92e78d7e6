package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

const (
	defaultAWSRegion        = "us-east-1"
	defaultAWSClientRetries = 3
)

// NewAWSConfig creates and returns a new AWS configuration with default settings.
// It sets the default region and specifies the maximum number of retry attempts for AWS clients.
func NewAWSConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(
		ctx,
		config.WithDefaultRegion(defaultAWSRegion),
		config.WithRetryMaxAttempts(defaultAWSClientRetries),
	)
}

// NewS3Client returns an S3 client for the default AWS configuration.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	awsConfig, err := NewAWSConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}

	return s3.NewFromConfig(awsConfig), nil
}
