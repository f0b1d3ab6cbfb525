package model

import "errors"

// Upload limits and normalization targets.
const (
	MaxPhotoSizeBytes  = 5 * 1024 * 1024  // profile photos
	MaxReportSizeBytes = 20 * 1024 * 1024 // polygraph report scans

	PhotoWidth  = 200
	PhotoHeight = 200
	PhotoFolder = "photos"
	PhotoExt    = ".jpg"

	ReportFolder = "reports"
)

// UploadResult is returned after a server-side upload.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PresignReportRequest asks for a one-shot upload URL for a report scan.
type PresignReportRequest struct {
	ContentType string `json:"content_type"` // application/pdf or image/jpeg
	SizeBytes   int64  `json:"size_bytes"`
}

// PresignReportResponse carries the upload URL and the key to store on the exam.
type PresignReportResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// Media error codes (used in HTTP responses)
const (
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeUnsupportedType = "UNSUPPORTED_TYPE"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported content type")
)
