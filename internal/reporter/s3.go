package reporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Uploader handles uploading run artifacts to S3
type S3Uploader struct {
	client     *s3.Client
	bucketName string
	region     string
}

// NewS3Uploader creates a new S3 uploader
func NewS3Uploader(bucketName, region string) (*S3Uploader, error) {
	if bucketName == "" {
		bucketName = os.Getenv("S3_BUCKET_NAME")
		if bucketName == "" {
			bucketName = "percenty-edit-artifacts"
		}
	}

	if region == "" {
		region = os.Getenv("AWS_REGION")
		if region == "" {
			region = "ap-northeast-2"
		}
	}

	// Load AWS config
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &S3Uploader{
		client:     client,
		bucketName: bucketName,
		region:     region,
	}, nil
}

// UploadFile uploads a file to S3
func (u *S3Uploader) UploadFile(ctx context.Context, path, s3Key string) (string, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}

	// Determine content type
	contentType := u.getContentType(path)

	// Upload to S3
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucketName),
		Key:         aws.String(s3Key),
		Body:        strings.NewReader(string(data)),
		ContentType: aws.String(contentType),
	})

	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	// Construct S3 URL
	s3URL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		u.bucketName,
		u.region,
		s3Key,
	)

	return s3URL, nil
}

// getContentType determines content type from file extension
func (u *S3Uploader) getContentType(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".json":
		return "application/json"
	case ".html":
		return "text/html"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// UploadReport uploads a run report JSON to S3
func (u *S3Uploader) UploadReport(ctx context.Context, reportPath, runID string) (string, error) {
	s3Key := fmt.Sprintf("runs/%s/report.json", runID)
	return u.UploadFile(ctx, reportPath, s3Key)
}

// UploadPageDump uploads a page-source dump taken on a failure
func (u *S3Uploader) UploadPageDump(ctx context.Context, dumpPath, runID string) (string, error) {
	s3Key := fmt.Sprintf("runs/%s/dumps/%s", runID, filepath.Base(dumpPath))
	return u.UploadFile(ctx, dumpPath, s3Key)
}

// UploadReportWithArtifacts uploads a report and every page dump it
// references. Dump paths that no longer exist are skipped.
func (u *S3Uploader) UploadReportWithArtifacts(ctx context.Context, report *Report) error {
	for _, dump := range report.PageDumps {
		if _, err := os.Stat(dump); err != nil {
			continue
		}
		if _, err := u.UploadPageDump(ctx, dump, report.RunID); err != nil {
			return fmt.Errorf("failed to upload page dump %s: %w", dump, err)
		}
	}

	reportPath, err := report.SaveToTemp()
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	defer os.Remove(reportPath)

	if _, err := u.UploadReport(ctx, reportPath, report.RunID); err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	return nil
}

// GetReportURL returns the S3 URL for a run report
func (u *S3Uploader) GetReportURL(runID string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/runs/%s/report.json",
		u.bucketName,
		u.region,
		runID,
	)
}
