package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Settings holds the AWS values needed to reach DynamoDB.
//
// Local DynamoDB does not validate credentials, but the AWS SDK requires
// them, so empty keys fall back to "local".
type Settings struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the service URL, e.g. http://dynamodb:8000.
	Endpoint string
}

// ConnectDynamoDB creates a DynamoDB client.
func ConnectDynamoDB(ctx context.Context, s Settings) (*dynamodb.Client, error) {
	cfg, err := NewAWSConfig(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("create dynamodb config: %w", err)
	}

	endpoint := strings.TrimSpace(s.Endpoint)
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func NewAWSConfig(ctx context.Context, s Settings) (aws.Config, error) {
	creds := credentials.NewStaticCredentialsProvider(
		defaultString(s.AccessKeyID, "local"),
		defaultString(s.SecretAccessKey, "local"),
		"",
	)

	return config.LoadDefaultConfig(ctx,
		config.WithRegion(defaultString(s.Region, "us-east-1")),
		config.WithCredentialsProvider(creds),
	)
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}
