package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/user/vidtube/internal/config"
)

type objectDeleter interface {
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements MediaStore backed by an S3-compatible service.
type S3Store struct {
	uploader *manager.Uploader
	client   objectDeleter
	bucket   string
	baseURL  string
	now      func() time.Time
}

// withEndpoint points the client at an S3-compatible service with path-style
// addressing. An empty endpoint leaves the AWS defaults.
func withEndpoint(endpoint string) func(*s3.Options) {
	return func(o *s3.Options) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}
}

// NewS3Store configures an uploader targeting the configured bucket.
func NewS3Store(ctx context.Context, cfg config.MediaConfig) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, withEndpoint(cfg.Endpoint))

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Store{
		uploader: uploader,
		client:   client,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicURL, "/"),
		now:      time.Now,
	}, nil
}

// Upload streams the file at localPath to the bucket.
func (s *S3Store) Upload(ctx context.Context, localPath string, role Role) (string, error) {
	profile, err := ProfileFor(role)
	if err != nil {
		return "", err
	}
	key, err := objectKey(role, localPath, s.now())
	if err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("s3 storage open %s: %w", localPath, err)
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         f,
		ACL:          s3types.ObjectCannedACLPublicRead,
		CacheControl: aws.String(profile.CacheControl),
		Metadata:     map[string]string{"role": string(role)},
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if profile.Width > 0 {
		input.Metadata["display-width"] = strconv.Itoa(profile.Width)
		input.Metadata["display-height"] = strconv.Itoa(profile.Height)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("s3 storage upload %s: %w", key, err)
	}

	if s.baseURL == "" {
		return key, nil
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// Delete removes the object behind url. URLs outside the bucket are ignored.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key := keyFromURL(s.baseURL, url)
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 storage delete %s: %w", key, err)
	}
	return nil
}
