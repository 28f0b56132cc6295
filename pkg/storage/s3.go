package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud-video/pkg/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

type S3Storage struct {
	client   s3iface.S3API
	uploader *s3manager.Uploader
	bucket   string
	opts     S3Options
	log      *logger.Logger
}

func NewS3Storage(ctx context.Context, opts S3Options, bucket string, log *logger.Logger) (*S3Storage, error) {
	awsConfig := &aws.Config{
		Region: aws.String(opts.Region),
	}
	if opts.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(opts.AccessKeyID, opts.SecretAccessKey, "")
	}
	// MinIO and other S3-compatible servers.
	if opts.Endpoint != "" {
		awsConfig.Endpoint = aws.String(opts.Endpoint)
	}
	awsConfig.S3ForcePathStyle = aws.Bool(opts.ForcePathStyle)
	awsConfig.DisableSSL = aws.Bool(opts.DisableSSL)

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := s3.New(sess)
	s := &S3Storage{
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
		bucket:   bucket,
		opts:     opts,
		log:      log.With("storage", "s3", "bucket", bucket),
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureBucket creates the bucket when it does not exist yet. Losing a
// creation race to another process is not an error.
func (s *S3Storage) ensureBucket(ctx context.Context) error {
	if _, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	}); err == nil {
		return nil
	}

	_, err := s.client.CreateBucketWithContext(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		s.log.Info("Created bucket %s", s.bucket)
		return nil
	}

	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeBucketAlreadyOwnedByYou, s3.ErrCodeBucketAlreadyExists:
			return nil
		}
	}
	return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
}

func (s *S3Storage) Put(ctx context.Context, ownerID uint, filename, contentType string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%d/%s_%s", ownerID, uuid.NewString(), SafeFilename(filename))

	input := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return "", writeError(err)
	}
	return s.objectURL(key), nil
}

func (s *S3Storage) Delete(ctx context.Context, locator string) {
	key, ok := s.keyFromLocator(locator)
	if !ok {
		if locator != "" {
			s.log.Warn("Ignoring delete of unrecognised locator %q", locator)
		}
		return
	}

	if _, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		s.log.Warn("Failed to delete %s: %v", key, err)
	}
}

// objectURL builds a path-style URL for custom endpoints and a
// virtual-hosted AWS URL otherwise.
func (s *S3Storage) objectURL(key string) string {
	if s.opts.Endpoint != "" {
		base := s.opts.Endpoint
		if !strings.Contains(base, "://") {
			scheme := "https"
			if s.opts.DisableSSL {
				scheme = "http"
			}
			base = scheme + "://" + base
		}
		if s.opts.ForcePathStyle {
			return fmt.Sprintf("%s/%s/%s", base, s.bucket, key)
		}
		u, err := url.Parse(base)
		if err == nil {
			return fmt.Sprintf("%s://%s.%s/%s", u.Scheme, s.bucket, u.Host, key)
		}
	}

	region := s.opts.Region
	if region == "" {
		region = defaultRegion
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, region, key)
}

// keyFromLocator accepts both URL shapes produced by objectURL.
func (s *S3Storage) keyFromLocator(locator string) (string, bool) {
	u, err := url.Parse(locator)
	if err != nil || u.Host == "" {
		return "", false
	}
	p := strings.TrimPrefix(u.Path, "/")

	var key string
	switch {
	case strings.HasPrefix(u.Host, s.bucket+"."):
		key = p
	case strings.HasPrefix(p, s.bucket+"/"):
		key = strings.TrimPrefix(p, s.bucket+"/")
	default:
		return "", false
	}
	if key == "" {
		return "", false
	}
	return key, true
}
