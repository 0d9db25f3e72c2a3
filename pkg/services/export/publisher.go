package export

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Publisher copies exported files to shared storage.
type Publisher interface {
	Publish(ctx context.Context, files []string) error
}

// ObjectPutter is the part of the S3 client the publisher uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
}

func NewS3Publisher(client ObjectPutter, bucket, prefix string) (Publisher, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name cannot be empty")
	}
	return &s3Publisher{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewS3PublisherFromEnv builds an S3 client from the default AWS credential
// chain. An empty region keeps the chain's region.
func NewS3PublisherFromEnv(ctx context.Context, bucket, prefix, region string) (Publisher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3Publisher(s3.NewFromConfig(cfg), bucket, prefix)
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

func (p *s3Publisher) Publish(ctx context.Context, files []string) error {
	logger := zerolog.Ctx(ctx)

	for _, file := range files {
		key := path.Join(p.prefix, filepath.Base(file))
		if err := p.put(ctx, file, key); err != nil {
			return err
		}
		logger.Debug().Str("bucket", p.bucket).Str("key", key).Msg("uploaded export")
	}

	logger.Info().Int("files", len(files)).Str("bucket", p.bucket).Msg("published exports")
	return nil
}

func (p *s3Publisher) put(ctx context.Context, file, key string) error {
	body, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer body.Close()

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType(file)),
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s/%s: %w", file, p.bucket, key, err)
	}
	return nil
}
