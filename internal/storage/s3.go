package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"fitclub/planner/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// s3Archive implements PlanArchive using an S3-compatible backend.
type s3Archive struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	now           func() time.Time
}

// NewPlanArchive returns an S3 archive, or a NopArchive when S3 is disabled.
func NewPlanArchive(ctx context.Context, cfg config.S3Config) (PlanArchive, error) {
	if !cfg.Enabled {
		log.Info().Msg("plan archive disabled")
		return NopArchive{}, nil
	}
	return NewS3Archive(ctx, cfg)
}

// NewS3Archive creates an archive on cfg.BucketName.
func NewS3Archive(ctx context.Context, cfg config.S3Config) (PlanArchive, error) {
	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to load AWS SDK config for S3")
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// MinIO and other S3-compatible services need path-style addressing
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	log.Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("S3 plan archive initialized")

	return &s3Archive{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
		now:           time.Now,
	}, nil
}

// Put uploads payload as JSON under a new time-ordered key.
func (s *s3Archive) Put(ctx context.Context, kind Kind, clientID string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	key := objectKey(kind, clientID, s.now(), uuid.NewString())

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to archive plan snapshot")
		return "", err
	}
	log.Debug().Str("key", key).Int("bytes", len(body)).Msg("archived plan snapshot")
	return key, nil
}

// LatestURL finds the newest snapshot under the plan's prefix and presigns a GET for it.
func (s *s3Archive) LatestURL(ctx context.Context, kind Kind, clientID string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	var latest string
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix(kind, clientID)),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			log.Error().Err(err).Str("clientId", clientID).Msg("failed to list plan snapshots")
			return "", err
		}
		for _, obj := range page.Contents {
			if key := aws.ToString(obj.Key); key > latest {
				latest = key
			}
		}
	}
	if latest == "" {
		return "", ErrObjectNotFound
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(latest),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		log.Error().Err(err).Str("key", latest).Msg("failed to generate presigned GET URL")
		return "", err
	}
	return req.URL, nil
}
