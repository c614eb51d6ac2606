package filestore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const TypeS3 = "s3"

type s3Config struct {
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Prefix    string `json:"prefix"`
	// PublicBase, when set, is used to build public object urls directly.
	PublicBase   string `json:"public_base"`
	UsePathStyle bool   `json:"use_path_style"`
}

type s3Store struct {
	client *s3.Client
	cfg    s3Config
}

func init() {
	Register(TypeS3, func(args interface{}) (Store, error) {
		var cfg s3Config
		if err := decodeConfig(args, &cfg); err != nil {
			return nil, err
		}
		return NewS3Store(cfg)
	})
}

func NewS3Store(cfg s3Config) (Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 store bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awscfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awscfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &s3Store{client: client, cfg: cfg}, nil
}

func (s *s3Store) Type() string {
	return TypeS3
}

func (s *s3Store) objectKey(key string) string {
	if s.cfg.Prefix == "" {
		return key
	}
	return strings.TrimRight(s.cfg.Prefix, "/") + "/" + key
}

func (s *s3Store) URL(key, baseURL string) string {
	if s.cfg.PublicBase != "" {
		return strings.TrimRight(s.cfg.PublicBase, "/") + "/" + s.objectKey(key)
	}
	return strings.TrimRight(baseURL, "/") + "/api/v1/files/" + key
}

func (s *s3Store) Save(ctx context.Context, key string, r io.ReadSeeker, size int64) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(s.objectKey(key)),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *s3Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return out.Body, nil
}
