package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrMissingCredentials is returned by the environment credentials
// provider when no access key is set.
var ErrMissingCredentials = errors.New("publish: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are not set")

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store stores published documents in an S3 bucket.
//
// Example usage:
//
//	client := publish.NewS3Client(publish.S3Config{Region: "eu-west-1"})
//	store := publish.NewS3Store(client, "my-bucket", "site/")
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates a new S3 store. prefix is prepended to every key.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Name implements Store.
func (s *S3Store) Name() string { return "s3" }

// Put uploads obj with PutObject.
func (s *S3Store) Put(ctx context.Context, obj Object) (Result, error) {
	key, err := cleanKey(s.prefix + obj.Key)
	if err != nil {
		return Result{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(obj.Body),
		ContentLength: aws.Int64(int64(len(obj.Body))),
		Metadata:      obj.Metadata,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return Result{}, fmt.Errorf("s3 upload failed: %w", err)
	}

	return Result{
		Key:      key,
		Location: "s3://" + s.bucket + "/" + key,
		Size:     int64(len(obj.Body)),
		StoredAt: time.Now().UTC(),
	}, nil
}

// S3Config configures NewS3Client.
type S3Config struct {
	// Region is the bucket region. Defaults to $AWS_REGION, then us-east-1.
	Region string

	// Endpoint overrides the service endpoint for S3-compatible stores.
	// Path-style addressing is used when set.
	Endpoint string

	// Credentials defaults to EnvCredentials.
	Credentials aws.CredentialsProvider
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(cfg S3Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	creds := cfg.Credentials
	if creds == nil {
		creds = EnvCredentials()
	}

	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(creds),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// EnvCredentials reads static credentials from the standard AWS
// environment variables.
func EnvCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		id := os.Getenv("AWS_ACCESS_KEY_ID")
		secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, ErrMissingCredentials
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	})
}
