package service

import (
	"context"
	"fmt"
	"time"

	"steadypath/internal/model"
	"steadypath/internal/repository"
)

const (
	officerLogDefaultLimit = 20
	officerLogMaxLimit     = 100
)

// OfficerLogService handles the probation-officer contact log.
type OfficerLogService struct {
	repo repository.OfficerContactRepository
}

func NewOfficerLogService(repo repository.OfficerContactRepository) *OfficerLogService {
	return &OfficerLogService{repo: repo}
}

// Create logs an officer interaction.
func (s *OfficerLogService) Create(ctx context.Context, userID int64, req *model.CreateOfficerContactRequest) (*model.OfficerContact, error) {
	if req.OfficerName == "" {
		return nil, invalidf("officer_name is required")
	}
	if !model.ValidContactMethod(req.Method) {
		return nil, model.ErrInvalidContactMethod
	}

	contactDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.ContactDate != "" {
		d, err := time.ParseInLocation(dateLayout, req.ContactDate, time.UTC)
		if err != nil {
			return nil, invalidf("invalid contact_date, expected YYYY-MM-DD")
		}
		contactDate = d
	}

	c := &model.OfficerContact{
		UserID:      userID,
		ContactDate: contactDate,
		OfficerName: req.OfficerName,
		Method:      req.Method,
		Notes:       req.Notes,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create officer contact: %w", err)
	}
	return c, nil
}

// List returns the user's contact log newest-first.
func (s *OfficerLogService) List(ctx context.Context, userID int64, cursor *string, limit int) ([]model.OfficerContact, *string, error) {
	limit = clampLimit(limit, officerLogDefaultLimit, officerLogMaxLimit)

	var before *time.Time
	if cursor != nil && *cursor != "" {
		t, err := parseCursor(*cursor)
		if err != nil {
			return nil, nil, err
		}
		before = &t
	}

	contacts, next, err := s.repo.List(ctx, userID, before, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list officer contacts: %w", err)
	}

	var nextCursor *string
	if next != nil {
		c := formatCursor(*next)
		nextCursor = &c
	}
	return contacts, nextCursor, nil
}

// Get returns one contact, enforcing ownership.
func (s *OfficerLogService) Get(ctx context.Context, id, userID int64) (*model.OfficerContact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, model.ErrOfficerContactNotFound
	}
	return c, nil
}

// Update applies the non-nil fields of req to the user's contact.
func (s *OfficerLogService) Update(ctx context.Context, id, userID int64, req *model.UpdateOfficerContactRequest) (*model.OfficerContact, error) {
	c, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.OfficerName != nil {
		if *req.OfficerName == "" {
			return nil, invalidf("officer_name cannot be empty")
		}
		c.OfficerName = *req.OfficerName
	}
	if req.Method != nil {
		if !model.ValidContactMethod(*req.Method) {
			return nil, model.ErrInvalidContactMethod
		}
		c.Method = *req.Method
	}
	if req.Notes != nil {
		c.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the user's contact.
func (s *OfficerLogService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, userID)
}
