package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	s3iface.S3API
	mock.Mock
}

func (m *mockS3) HeadBucketWithContext(_ aws.Context, in *s3.HeadBucketInput, _ ...request.Option) (*s3.HeadBucketOutput, error) {
	args := m.Called(aws.StringValue(in.Bucket))
	return &s3.HeadBucketOutput{}, args.Error(0)
}

func (m *mockS3) CreateBucketWithContext(_ aws.Context, in *s3.CreateBucketInput, _ ...request.Option) (*s3.CreateBucketOutput, error) {
	args := m.Called(aws.StringValue(in.Bucket))
	return &s3.CreateBucketOutput{}, args.Error(0)
}

func (m *mockS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	args := m.Called(aws.StringValue(in.Bucket), aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func newTestS3(client s3iface.S3API, opts S3Options) *S3Storage {
	return &S3Storage{client: client, bucket: "videos", opts: opts, log: testLogger()}
}

func TestParseConnectionString(t *testing.T) {
	opts, err := ParseConnectionString("Endpoint=http://minio:9000/;AccessKeyId=minio;SecretAccessKey=secret;DisableSSL=true")
	require.NoError(t, err)
	assert.Equal(t, S3Options{
		Endpoint:        "http://minio:9000",
		Region:          defaultRegion,
		AccessKeyID:     "minio",
		SecretAccessKey: "secret",
		ForcePathStyle:  true,
		DisableSSL:      true,
	}, opts)

	opts, err = ParseConnectionString("region=eu-west-1; accesskeyid=AK ;secretaccesskey=SK;")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.Equal(t, "AK", opts.AccessKeyID)
	assert.False(t, opts.ForcePathStyle)

	opts, err = ParseConnectionString("Endpoint=https://s3.example.com;ForcePathStyle=false")
	require.NoError(t, err)
	assert.False(t, opts.ForcePathStyle)
}

func TestParseConnectionString_Errors(t *testing.T) {
	for _, in := range []string{
		"Endpoint",
		"ForcePathStyle=maybe",
		"DisableSSL=2x",
		"AccountName=foo",
	} {
		_, err := ParseConnectionString(in)
		assert.Error(t, err, in)
	}
}

func TestS3Storage_ObjectURLRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		opts S3Options
		url  string
	}{
		{
			name: "aws virtual host",
			opts: S3Options{Region: "eu-central-1"},
			url:  "https://videos.s3.eu-central-1.amazonaws.com/7/abc_clip.mp4",
		},
		{
			name: "minio path style",
			opts: S3Options{Endpoint: "http://minio:9000", ForcePathStyle: true},
			url:  "http://minio:9000/videos/7/abc_clip.mp4",
		},
		{
			name: "endpoint without scheme",
			opts: S3Options{Endpoint: "minio:9000", ForcePathStyle: true, DisableSSL: true},
			url:  "http://minio:9000/videos/7/abc_clip.mp4",
		},
		{
			name: "custom endpoint virtual host",
			opts: S3Options{Endpoint: "https://storage.example.com"},
			url:  "https://videos.storage.example.com/7/abc_clip.mp4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestS3(nil, tt.opts)
			assert.Equal(t, tt.url, s.objectURL("7/abc_clip.mp4"))

			key, ok := s.keyFromLocator(tt.url)
			require.True(t, ok)
			assert.Equal(t, "7/abc_clip.mp4", key)
		})
	}
}

func TestS3Storage_KeyFromLocatorRejectsForeign(t *testing.T) {
	s := newTestS3(nil, S3Options{Region: defaultRegion})
	for _, locator := range []string{
		"",
		"/static/1_x.mp4",
		"https://other.s3.us-east-1.amazonaws.com/1/x.mp4",
		"http://minio:9000/other/1/x.mp4",
		"https://videos.s3.us-east-1.amazonaws.com/",
		"::not a url",
	} {
		_, ok := s.keyFromLocator(locator)
		assert.False(t, ok, locator)
	}
}

func TestS3Storage_EnsureBucket(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		client := new(mockS3)
		client.On("HeadBucketWithContext", "videos").Return(nil)

		require.NoError(t, newTestS3(client, S3Options{}).ensureBucket(context.Background()))
		client.AssertNotCalled(t, "CreateBucketWithContext", mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		client := new(mockS3)
		client.On("HeadBucketWithContext", "videos").Return(errors.New("NotFound"))
		client.On("CreateBucketWithContext", "videos").Return(nil)

		require.NoError(t, newTestS3(client, S3Options{}).ensureBucket(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("lost race", func(t *testing.T) {
		client := new(mockS3)
		client.On("HeadBucketWithContext", "videos").Return(errors.New("NotFound"))
		client.On("CreateBucketWithContext", "videos").Return(awserr.New(s3.ErrCodeBucketAlreadyOwnedByYou, "mine", nil))

		require.NoError(t, newTestS3(client, S3Options{}).ensureBucket(context.Background()))
	})

	t.Run("denied", func(t *testing.T) {
		client := new(mockS3)
		client.On("HeadBucketWithContext", "videos").Return(errors.New("Forbidden"))
		client.On("CreateBucketWithContext", "videos").Return(awserr.New("AccessDenied", "no", nil))

		assert.Error(t, newTestS3(client, S3Options{}).ensureBucket(context.Background()))
	})
}

func TestS3Storage_DeleteIsBestEffort(t *testing.T) {
	client := new(mockS3)
	client.On("DeleteObjectWithContext", "videos", "7/abc_clip.mp4").Return(errors.New("boom"))
	s := newTestS3(client, S3Options{Region: defaultRegion})

	s.Delete(context.Background(), "https://videos.s3.us-east-1.amazonaws.com/7/abc_clip.mp4")
	s.Delete(context.Background(), "/static/not-ours.mp4")

	client.AssertNumberOfCalls(t, "DeleteObjectWithContext", 1)
}
