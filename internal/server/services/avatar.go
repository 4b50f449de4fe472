package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/config"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

const avatarUploadExpiry = 15 * time.Minute

// AvatarUpload tells the browser where to PUT the picture and which URL to
// save as the avatar afterwards.
type AvatarUpload struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

// AvatarService hands out presigned S3 uploads for profile pictures.
type AvatarService struct {
	config *config.Config
}

func NewAvatarService(cfg *config.Config) *AvatarService {
	return &AvatarService{config: cfg}
}

func avatarStorageKey() string {
	return "avatars/" + uuid.NewString()
}

func (s *AvatarService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// Presign returns a one-off upload slot for the caller's avatar.
func (s *AvatarService) Presign(ctx context.Context, sess *models.Session) (*AvatarUpload, error) {
	if !sess.Authenticated() {
		return nil, common.ErrorUnauthorized
	}
	if !s.config.S3Enabled() {
		return nil, fmt.Errorf("%w: avatar storage is not configured", common.ErrorValidation)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := avatarStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(avatarUploadExpiry))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return &AvatarUpload{UploadURL: req.URL, PublicURL: s.publicURL(key)}, nil
}

func (s *AvatarService) publicURL(key string) string {
	base := s.config.S3PublicBaseURL
	if base == "" {
		base = strings.TrimRight(s.config.S3BaseEndpoint, "/") + "/" + s.config.S3Bucket
	}
	return strings.TrimRight(base, "/") + "/" + key
}
