package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/google/uuid"
)

// ImageMirror stores a copy of a profile image outside the device.
type ImageMirror interface {
	Upload(ctx context.Context, key string, body io.Reader) error
}

// MirrorConfig addresses the S3 bucket images are mirrored to. Endpoint
// and static keys are optional; without keys the default AWS chain is used.
type MirrorConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// putObjectAPI is the slice of *s3.Client used by S3Mirror.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Mirror uploads images to an S3 compatible bucket.
type S3Mirror struct {
	client putObjectAPI
	bucket string
}

// NewS3Mirror builds an S3 client from c.
func NewS3Mirror(ctx context.Context, c MirrorConfig) (*S3Mirror, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Mirror{client: client, bucket: c.Bucket}, nil
}

func (m *S3Mirror) Upload(ctx context.Context, key string, body io.Reader) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// ObjectKey returns profiles/<yyyy>/<mm>/<uuid>.jpg.
func ObjectKey(now time.Time) string {
	return fmt.Sprintf("profiles/%04d/%02d/%s.jpg", now.Year(), int(now.Month()), uuid.NewString())
}

// mirrorImage records path as pending and tries one upload. A failed upload
// stays pending for SyncPendingImages.
func (p *ProfileStore) mirrorImage(ctx context.Context, path string) {
	if p.mirror == nil || p.images == nil {
		return
	}
	img := &models.ProfileImage{
		LocalPath:    path,
		ObjectKey:    ObjectKey(p.now()),
		UploadStatus: models.UploadPending,
		CreatedAt:    p.now(),
	}
	if err := p.images.Create(ctx, img); err != nil {
		p.logger.Warn(ctx, "track image upload failed", "error", err)
		return
	}
	if err := p.upload(ctx, img); err != nil {
		p.logger.Warn(ctx, "image upload deferred", "path", path, "error", err)
	}
}

func (p *ProfileStore) upload(ctx context.Context, img *models.ProfileImage) error {
	f, err := os.Open(img.LocalPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := p.mirror.Upload(ctx, img.ObjectKey, f); err != nil {
		return err
	}
	return p.images.MarkUploaded(ctx, img.LocalPath)
}

// SyncPendingImages retries every upload still marked pending and returns
// how many completed. Without a mirror it does nothing.
func (p *ProfileStore) SyncPendingImages(ctx context.Context) (int, error) {
	if p.mirror == nil || p.images == nil {
		return 0, nil
	}
	pending, err := p.images.GetAllPending(ctx)
	if err != nil {
		return 0, err
	}

	var (
		n    int
		errs []error
	)
	for _, img := range pending {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := p.upload(ctx, img); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", img.LocalPath, err))
			continue
		}
		n++
	}
	if n > 0 {
		p.logger.Info(ctx, "synced profile images", "count", n)
	}
	return n, errors.Join(errs...)
}
