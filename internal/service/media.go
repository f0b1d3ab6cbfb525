package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"steadypath/internal/config"
	"steadypath/internal/model"
)

const presignExpiry = 15 * time.Minute

// MediaService handles object storage on Cloudflare R2: server-side profile
// photo uploads (small, normalized in-process) and presigned direct uploads
// for polygraph report scans (large, never pass through the API server).
type MediaService struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	publicURL     string
}

// NewMediaService constructs an S3-compatible client against R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.R2BucketName,
		publicURL:     strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// UploadPhoto enforces size/type, normalizes to a 200x200 JPEG, and uploads.
func (s *MediaService) UploadPhoto(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	data, err := readAndValidate(file, header, model.MaxPhotoSizeBytes, isAllowedPhotoType)
	if err != nil {
		return nil, err
	}

	jpegBytes, err := resizeToJPEG(data, model.PhotoWidth, model.PhotoHeight, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", model.PhotoFolder, uuid.NewString(), model.PhotoExt)
	if err := s.putObject(ctx, key, jpegBytes, "image/jpeg"); err != nil {
		return nil, err
	}

	return &model.UploadResult{URL: s.PublicURL(key), Key: key}, nil
}

// PresignReportUpload issues a one-shot PUT URL for a report scan so the
// client uploads the file straight to R2.
func (s *MediaService) PresignReportUpload(ctx context.Context, req *model.PresignReportRequest) (*model.PresignReportResponse, error) {
	if !isAllowedReportType(req.ContentType) {
		return nil, model.ErrUnsupportedType
	}
	if req.SizeBytes <= 0 || req.SizeBytes > model.MaxReportSizeBytes {
		return nil, model.ErrFileTooLarge
	}

	key := fmt.Sprintf("%s/%s%s", model.ReportFolder, uuid.NewString(), extForContentType(req.ContentType))

	presigned, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(req.ContentType),
		ContentLength: aws.Int64(req.SizeBytes),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign report upload: %w", err)
	}

	return &model.PresignReportResponse{
		UploadURL: presigned.URL,
		Key:       key,
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}

// PublicURL maps a stored key to its public URL.
func (s *MediaService) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

// DeleteObject removes an object by key.
func (s *MediaService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from r2: %w", err)
	}
	return nil
}

// readAndValidate loads the upload into memory with size and type checks.
func readAndValidate(file multipart.File, header *multipart.FileHeader, maxSize int64, allowed func(string) bool) ([]byte, error) {
	if header.Size > maxSize {
		return nil, model.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, model.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !allowed(contentType) {
		return nil, model.ErrUnsupportedType
	}

	return data, nil
}

// resizeToJPEG centers/crops to target size and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload to r2: %w", err)
	}
	return nil
}

func isAllowedPhotoType(ct string) bool {
	switch ct {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

func isAllowedReportType(ct string) bool {
	switch ct {
	case "application/pdf", "image/jpeg", "image/png":
		return true
	}
	return false
}

func extForContentType(ct string) string {
	switch ct {
	case "application/pdf":
		return ".pdf"
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
