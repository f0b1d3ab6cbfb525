package service

import (
	"context"
	"fmt"
	"time"

	"steadypath/internal/model"
	"steadypath/internal/repository"
)

// PolygraphService handles the polygraph exam history. Exams are few (two to
// four a year), so the list is not paginated.
type PolygraphService struct {
	repo  repository.PolygraphRepository
	media *MediaService
}

func NewPolygraphService(repo repository.PolygraphRepository, media *MediaService) *PolygraphService {
	return &PolygraphService{repo: repo, media: media}
}

// Create records an exam. ReportKey, if set, must come from the presign flow.
func (s *PolygraphService) Create(ctx context.Context, userID int64, req *model.CreatePolygraphExamRequest) (*model.PolygraphExam, error) {
	if req.Examiner == "" {
		return nil, invalidf("examiner is required")
	}
	if !model.ValidPolygraphResult(req.Result) {
		return nil, model.ErrInvalidPolygraphResult
	}

	examDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.ExamDate != "" {
		d, err := time.ParseInLocation(dateLayout, req.ExamDate, time.UTC)
		if err != nil {
			return nil, invalidf("invalid exam_date, expected YYYY-MM-DD")
		}
		examDate = d
	}

	exam := &model.PolygraphExam{
		UserID:    userID,
		ExamDate:  examDate,
		Examiner:  req.Examiner,
		Result:    req.Result,
		Notes:     req.Notes,
		ReportKey: req.ReportKey,
	}

	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create polygraph exam: %w", err)
	}

	s.attachReportURL(exam)
	return exam, nil
}

// List returns the user's exam history, newest first.
func (s *PolygraphService) List(ctx context.Context, userID int64) ([]model.PolygraphExam, error) {
	exams, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list polygraph exams: %w", err)
	}
	for i := range exams {
		s.attachReportURL(&exams[i])
	}
	return exams, nil
}

// Get returns one exam, enforcing ownership.
func (s *PolygraphService) Get(ctx context.Context, id, userID int64) (*model.PolygraphExam, error) {
	exam, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.UserID != userID {
		return nil, model.ErrPolygraphExamNotFound
	}
	s.attachReportURL(exam)
	return exam, nil
}

// Update applies the non-nil fields of req to the user's exam.
func (s *PolygraphService) Update(ctx context.Context, id, userID int64, req *model.UpdatePolygraphExamRequest) (*model.PolygraphExam, error) {
	exam, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Examiner != nil {
		if *req.Examiner == "" {
			return nil, invalidf("examiner cannot be empty")
		}
		exam.Examiner = *req.Examiner
	}
	if req.Result != nil {
		if !model.ValidPolygraphResult(*req.Result) {
			return nil, model.ErrInvalidPolygraphResult
		}
		exam.Result = *req.Result
	}
	if req.Notes != nil {
		exam.Notes = req.Notes
	}
	if req.ReportKey != nil {
		exam.ReportKey = req.ReportKey
	}

	if err := s.repo.Update(ctx, exam); err != nil {
		return nil, err
	}
	s.attachReportURL(exam)
	return exam, nil
}

// Delete removes the user's exam and its report scan from object storage.
func (s *PolygraphService) Delete(ctx context.Context, id, userID int64) error {
	exam, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	if exam.ReportKey != nil && s.media != nil {
		// Best-effort; an orphaned object is re-claimable later.
		_ = s.media.DeleteObject(ctx, *exam.ReportKey)
	}
	return nil
}

func (s *PolygraphService) attachReportURL(exam *model.PolygraphExam) {
	if exam.ReportKey == nil || s.media == nil {
		return
	}
	url := s.media.PublicURL(*exam.ReportKey)
	exam.ReportURL = &url
}
