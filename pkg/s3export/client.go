// Package s3export uploads finished result files to S3.
package s3export

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/naastyyshha/sortbench/internal/logctx"
	"github.com/naastyyshha/sortbench/pkg/humanfmt"
)

// Client provides S3 operations for publishing result files.
type Client struct {
	s3Client *s3.Client
}

// NewClient creates a new S3 client using default AWS configuration.
func NewClient(ctx context.Context) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Client{
		s3Client: s3.NewFromConfig(cfg),
	}, nil
}

// UploadFile puts the local file at localPath to s3://bucket/key.
func (c *Client) UploadFile(ctx context.Context, localPath, bucket, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(ContentType(localPath)),
	}
	if strings.HasSuffix(strings.ToLower(localPath), ".gz") {
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := c.s3Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object s3://%s/%s: %w", bucket, key, err)
	}

	log := logctx.FromContext(ctx)
	log.Info().
		Str("file", localPath).
		Str("uri", "s3://"+bucket+"/"+key).
		Str("size", humanfmt.Bytes(info.Size())).
		Msg("uploaded result file")
	return nil
}

// Upload publishes each local file under the s3:// destination prefix.
// It stops at the first failure.
func (c *Client) Upload(ctx context.Context, destURI string, localPaths ...string) error {
	bucket, prefix, err := ParseS3URI(destURI)
	if err != nil {
		return err
	}
	for _, p := range localPaths {
		if err := c.UploadFile(ctx, p, bucket, ObjectKey(prefix, p)); err != nil {
			return err
		}
	}
	return nil
}

// ParseS3URI parses an S3 URI (s3://bucket/key) into bucket and key components.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !strings.HasPrefix(uri, "s3://") {
		return "", "", fmt.Errorf("invalid S3 URI %q: must start with s3://", uri)
	}

	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q: missing bucket name", uri)
	}
	return bucket, key, nil
}

// ObjectKey joins prefix and the base name of localPath with a single slash.
func ObjectKey(prefix, localPath string) string {
	name := filepath.Base(localPath)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// ContentType returns the MIME type stored with an uploaded result file.
func ContentType(localPath string) string {
	name := strings.TrimSuffix(strings.ToLower(localPath), ".gz")
	switch {
	case strings.HasSuffix(name, ".csv"):
		return "text/csv; charset=utf-8"
	case strings.HasSuffix(name, ".parquet"):
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}
