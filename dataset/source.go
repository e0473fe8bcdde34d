package dataset

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/lisacrebassa/pals-analysis/config"
)

// Source opens dataset files by name.
type Source interface {
	Open(ctx context.Context, file string) (io.ReadCloser, error)
	// Location describes where file is read from, for errors and logs.
	Location(file string) string
	Kind() string
}

// NewSource builds the Source selected by cfg.
func NewSource(ctx context.Context, cfg config.DataConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceS3:
		return NewS3Source(ctx, cfg.S3)
	case config.SourceFile, "":
		return FileSource{Dir: cfg.Dir}, nil
	default:
		return nil, errors.Errorf("unknown data source %q", cfg.Source)
	}
}

// ============================================================================
// LOCAL FILES
// ============================================================================

// FileSource reads files from a local directory.
type FileSource struct {
	Dir string
}

func (s FileSource) Open(_ context.Context, file string) (io.ReadCloser, error) {
	return os.Open(s.Location(file))
}

func (s FileSource) Location(file string) string {
	return filepath.Join(s.Dir, file)
}

func (s FileSource) Kind() string { return config.SourceFile }

// ============================================================================
// S3
// ============================================================================

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads files from a bucket prefix. Works against AWS and
// S3-compatible stores (MinIO) through Endpoint + UsePathStyle.
type S3Source struct {
	client objectGetter
	bucket string
	prefix string
}

// NewS3Source creates an S3 client from cfg. Static credentials are used
// when both keys are set; otherwise the default AWS credential chain applies.
func NewS3Source(ctx context.Context, cfg config.S3Config) (*S3Source, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 source needs a bucket")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Source{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *S3Source) Open(ctx context.Context, file string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(file)),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get object %s", s.Location(file))
	}
	return result.Body, nil
}

func (s *S3Source) Location(file string) string {
	return "s3://" + s.bucket + "/" + s.key(file)
}

func (s *S3Source) Kind() string { return config.SourceS3 }

func (s *S3Source) key(file string) string {
	return path.Join(s.prefix, file)
}
