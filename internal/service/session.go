package service

import (
	"context"
	"fmt"
	"time"

	"steadypath/internal/model"
	"steadypath/internal/repository"
)

const (
	sessionDefaultLimit = 20
	sessionMaxLimit     = 100
)

// SessionService handles the group-session ledger.
type SessionService struct {
	repo repository.SessionRepository
}

func NewSessionService(repo repository.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// Create records an attended session.
func (s *SessionService) Create(ctx context.Context, userID int64, req *model.CreateSessionRecordRequest) (*model.SessionRecord, error) {
	if req.Topic == "" {
		return nil, invalidf("topic is required")
	}
	if req.FeeCents < 0 {
		return nil, invalidf("fee_cents cannot be negative")
	}

	sessionDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.SessionDate != "" {
		d, err := time.ParseInLocation(dateLayout, req.SessionDate, time.UTC)
		if err != nil {
			return nil, invalidf("invalid session_date, expected YYYY-MM-DD")
		}
		sessionDate = d
	}

	rec := &model.SessionRecord{
		UserID:      userID,
		SessionDate: sessionDate,
		Topic:       req.Topic,
		FeeCents:    req.FeeCents,
		FeePaid:     req.FeePaid,
		Takeaway:    req.Takeaway,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create session record: %w", err)
	}
	return rec, nil
}

// List returns the user's ledger newest-first.
func (s *SessionService) List(ctx context.Context, userID int64, cursor *string, limit int) (*model.SessionListResponse, error) {
	limit = clampLimit(limit, sessionDefaultLimit, sessionMaxLimit)

	var before *time.Time
	if cursor != nil && *cursor != "" {
		t, err := parseCursor(*cursor)
		if err != nil {
			return nil, err
		}
		before = &t
	}

	records, next, err := s.repo.List(ctx, userID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list session records: %w", err)
	}

	resp := &model.SessionListResponse{Records: records}
	if next != nil {
		c := formatCursor(*next)
		resp.NextCursor = &c
	}
	return resp, nil
}

// Get returns one record, enforcing ownership.
func (s *SessionService) Get(ctx context.Context, id, userID int64) (*model.SessionRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, model.ErrSessionRecordNotFound
	}
	return rec, nil
}

// Autofill returns the most recent record's recurring fields (topic aside) so
// the weekly form opens with the usual fee pre-filled.
func (s *SessionService) Autofill(ctx context.Context, userID int64) (*model.CreateSessionRecordRequest, error) {
	latest, err := s.repo.GetLatest(ctx, userID)
	if err != nil {
		if err == model.ErrSessionRecordNotFound {
			return &model.CreateSessionRecordRequest{}, nil
		}
		return nil, fmt.Errorf("load latest session record: %w", err)
	}

	return &model.CreateSessionRecordRequest{
		FeeCents: latest.FeeCents,
		FeePaid:  false, // a new session's fee starts unpaid
	}, nil
}

// Update applies the non-nil fields of req to the user's record.
func (s *SessionService) Update(ctx context.Context, id, userID int64, req *model.UpdateSessionRecordRequest) (*model.SessionRecord, error) {
	rec, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Topic != nil {
		if *req.Topic == "" {
			return nil, invalidf("topic cannot be empty")
		}
		rec.Topic = *req.Topic
	}
	if req.FeeCents != nil {
		if *req.FeeCents < 0 {
			return nil, invalidf("fee_cents cannot be negative")
		}
		rec.FeeCents = *req.FeeCents
	}
	if req.FeePaid != nil {
		rec.FeePaid = *req.FeePaid
	}
	if req.Takeaway != nil {
		rec.Takeaway = req.Takeaway
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the user's record.
func (s *SessionService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, userID)
}
