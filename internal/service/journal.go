package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"steadypath/internal/cache"
	"steadypath/internal/model"
	"steadypath/internal/repository"
)

const (
	journalDefaultLimit = 20
	journalMaxLimit     = 100

	dateLayout = "2006-01-02"
)

// JournalService handles journal entries and the daily streak. The streak is
// computed from the Redis date cache, warmed from Postgres on a miss, so the
// common list request never scans the full entry history.
type JournalService struct {
	repo        repository.JournalRepository
	streakCache cache.StreakCache
}

func NewJournalService(repo repository.JournalRepository, streakCache cache.StreakCache) *JournalService {
	return &JournalService{repo: repo, streakCache: streakCache}
}

// Create writes a new entry. EntryDate defaults to today (UTC) when omitted.
// One entry per date per user; a duplicate date surfaces as
// model.ErrDuplicateEntryDate.
func (s *JournalService) Create(ctx context.Context, userID int64, req *model.CreateJournalEntryRequest) (*model.JournalEntry, error) {
	if req.Content == "" {
		return nil, invalidf("content is required")
	}
	if req.Mood < 1 || req.Mood > 10 {
		return nil, invalidf("mood must be between 1 and 10")
	}

	entryDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EntryDate != "" {
		d, err := time.ParseInLocation(dateLayout, req.EntryDate, time.UTC)
		if err != nil {
			return nil, invalidf("invalid entry_date, expected YYYY-MM-DD")
		}
		entryDate = d
	}

	entry := &model.JournalEntry{
		UserID:         userID,
		EntryDate:      entryDate,
		Mood:           req.Mood,
		Content:        req.Content,
		Triggers:       req.Triggers,
		SupportContact: req.SupportContact,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	// Write-through; a cache failure never fails the create.
	if err := s.streakCache.AddDate(ctx, userID, entryDate); err != nil {
		log.Printf("[Journal] streak cache add failed: user=%d err=%v", userID, err)
	}

	return entry, nil
}

// List returns the user's entries newest-first with the current streak.
func (s *JournalService) List(ctx context.Context, userID int64, cursor *string, limit int) (*model.JournalListResponse, error) {
	limit = clampLimit(limit, journalDefaultLimit, journalMaxLimit)

	var before *time.Time
	if cursor != nil && *cursor != "" {
		t, err := parseCursor(*cursor)
		if err != nil {
			return nil, err
		}
		before = &t
	}

	entries, next, err := s.repo.List(ctx, userID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	streak, err := s.Streak(ctx, userID)
	if err != nil {
		// The list is still useful without the badge.
		log.Printf("[Journal] streak computation failed: user=%d err=%v", userID, err)
		streak = 0
	}

	resp := &model.JournalListResponse{
		Entries: entries,
		Streak:  streak,
	}
	if next != nil {
		c := formatCursor(*next)
		resp.NextCursor = &c
	}
	return resp, nil
}

// Get returns one entry, enforcing ownership.
func (s *JournalService) Get(ctx context.Context, id, userID int64) (*model.JournalEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, model.ErrJournalEntryNotFound
	}
	return entry, nil
}

// Autofill returns the recurring fields of the most recent entry so the next
// entry form opens pre-populated. A user with no entries gets empty defaults.
func (s *JournalService) Autofill(ctx context.Context, userID int64) (*model.JournalAutofill, error) {
	latest, err := s.repo.GetLatest(ctx, userID)
	if err != nil {
		if err == model.ErrJournalEntryNotFound {
			return &model.JournalAutofill{Mood: 5}, nil
		}
		return nil, fmt.Errorf("load latest entry: %w", err)
	}

	return &model.JournalAutofill{
		Mood:           latest.Mood,
		Triggers:       latest.Triggers,
		SupportContact: latest.SupportContact,
	}, nil
}

// Update applies the non-nil fields of req to the user's entry. EntryDate is
// immutable; backfilling a different day means creating that day's entry.
func (s *JournalService) Update(ctx context.Context, id, userID int64, req *model.UpdateJournalEntryRequest) (*model.JournalEntry, error) {
	entry, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Mood != nil {
		if *req.Mood < 1 || *req.Mood > 10 {
			return nil, invalidf("mood must be between 1 and 10")
		}
		entry.Mood = *req.Mood
	}
	if req.Content != nil {
		if *req.Content == "" {
			return nil, invalidf("content cannot be empty")
		}
		entry.Content = *req.Content
	}
	if req.Triggers != nil {
		entry.Triggers = req.Triggers
	}
	if req.SupportContact != nil {
		entry.SupportContact = req.SupportContact
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes the user's entry and its date from the streak cache.
func (s *JournalService) Delete(ctx context.Context, id, userID int64) error {
	entry, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	if err := s.streakCache.RemoveDate(ctx, userID, entry.EntryDate); err != nil {
		log.Printf("[Journal] streak cache remove failed: user=%d err=%v", userID, err)
	}
	return nil
}

// Streak counts consecutive daily entries ending today or yesterday (UTC). A
// user who wrote every day through yesterday but not yet today still sees the
// unbroken run.
func (s *JournalService) Streak(ctx context.Context, userID int64) (int, error) {
	dates, err := s.cachedDates(ctx, userID)
	if err != nil {
		return 0, err
	}
	return countStreak(dates, time.Now().UTC()), nil
}

// cachedDates reads the entry dates from Redis, warming from Postgres when
// the key is missing (new user, TTL expiry, Redis restart).
func (s *JournalService) cachedDates(ctx context.Context, userID int64) ([]time.Time, error) {
	exists, err := s.streakCache.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !exists {
		dates, err := s.repo.EntryDates(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load entry dates: %w", err)
		}
		if err := s.streakCache.Warm(ctx, userID, dates); err != nil {
			log.Printf("[Journal] streak cache warm failed: user=%d err=%v", userID, err)
		}
		return dates, nil
	}

	return s.streakCache.Dates(ctx, userID)
}

// countStreak walks dates (newest first) and counts the consecutive run
// anchored at today or yesterday.
func countStreak(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	expect := today
	if !sameDay(dates[0], today) {
		expect = today.AddDate(0, 0, -1)
	}

	streak := 0
	for _, d := range dates {
		if !sameDay(d, expect) {
			break
		}
		streak++
		expect = expect.AddDate(0, 0, -1)
	}
	return streak
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
