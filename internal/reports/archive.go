package reports

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ricepro-web/internal/config"
	"ricepro-web/internal/timeutil"
)

// objectPutter is the part of the S3 client the archiver needs
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver uploads exported reports to an S3-compatible bucket.
type Archiver struct {
	client objectPutter
	bucket string
}

// NewArchiver returns nil when archiving is not configured.
func NewArchiver(ctx context.Context, cfg *config.Config) (*Archiver, error) {
	ac := cfg.Reports.Archive
	if !ac.Enabled || ac.Bucket == "" {
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(ac.Region),
	}
	if ac.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			ac.AccessKey,
			ac.SecretKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure report archive: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if ac.Endpoint != "" {
			o.BaseEndpoint = aws.String(ac.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Archiver{client: client, bucket: ac.Bucket}, nil
}

// Upload stores pdf under reports/<yyyy>/<mm>/<name> and returns the key.
func (a *Archiver) Upload(ctx context.Context, name string, pdf []byte) (string, error) {
	now := timeutil.Now()
	key := fmt.Sprintf("reports/%s/%s", now.Format("2006/01"), name)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}

	log.Printf("[Reports] Archived %s (%d bytes)", key, len(pdf))
	return key, nil
}
