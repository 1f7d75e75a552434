package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/caseforge/caseforge/types"
)

// S3Config holds configuration for the S3 artifact backend.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// ParseS3Path parses a path in format "bucket/prefix" or "bucket".
func ParseS3Path(p string) (bucket, prefix string) {
	parts := strings.SplitN(p, "/", 2)
	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}
	return bucket, prefix
}

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes artifacts to an S3 bucket under prefix/run_id/.
type S3Store struct {
	client s3API
	config S3Config
}

// NewS3Store creates an S3 artifact store. Uses the AWS SDK default
// credential chain (env vars, shared config, IAM role).
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		config: cfg,
	}, nil
}

// newS3StoreWithClient is used for test injection.
func newS3StoreWithClient(client s3API, cfg S3Config) *S3Store {
	return &S3Store{client: client, config: cfg}
}

func (s *S3Store) put(ctx context.Context, meta types.RunMeta, name, contentType string, data []byte) (string, error) {
	key := path.Join(s.config.Prefix, meta.RunID, name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.config.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.config.Bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.config.Bucket, key), nil
}

func (s *S3Store) SaveElements(ctx context.Context, meta types.RunMeta, elements []types.Element) (string, error) {
	data, err := encodeElements(elements)
	if err != nil {
		return "", err
	}
	return s.put(ctx, meta, elementsName(meta), "application/json", data)
}

func (s *S3Store) SaveTestCases(ctx context.Context, meta types.RunMeta, rows []types.TestCase, failed bool) (string, error) {
	data, err := encodeTestCases(rows)
	if err != nil {
		return "", err
	}
	return s.put(ctx, meta, testCasesName(meta, failed), "text/csv", data)
}

func (s *S3Store) SaveScripts(ctx context.Context, meta types.RunMeta, scripts []types.Script) (string, error) {
	data, err := encodeScripts(scripts)
	if err != nil {
		return "", err
	}
	return s.put(ctx, meta, scriptsName(meta), "text/csv", data)
}
