package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Configuration configures the S3 backend
type S3Configuration struct {
	Bucket        string
	Region        string
	AccessKeyID   string
	SecretKey     string
	Endpoint      string // optional, for S3 compatible stores
	PublicBaseURL string // optional, prefix of the public image URL
	KeyPrefix     string
}

// S3Backend uploads images to an S3 bucket
type S3Backend struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
	prefix   string
}

// NewS3Backend returns a backend for the configured bucket
func NewS3Backend(cfg S3Configuration) (*S3Backend, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket must not be empty")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = CloudinaryFolder + "/"
	}

	return &S3Backend{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		prefix:   prefix,
	}, nil
}

// Name implements Backend
func (s *S3Backend) Name() string { return BackendS3 }

// Save uploads the file under <prefix><uuid>_<sanitized name>
func (s *S3Backend) Save(ctx context.Context, file *File, baseURL string) (*StoredImage, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	key := s.prefix + uuid.NewString() + "_" + SanitizeFilename(file.Name)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   src,
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}

	out, err := s.uploader.Upload(ctx, input)
	if err != nil {
		return nil, err
	}

	url := out.Location
	if s.baseURL != "" {
		url = s.baseURL + "/" + key
	}
	return &StoredImage{URL: url, Key: key, Backend: BackendS3}, nil
}

// Delete removes the object
func (s *S3Backend) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
