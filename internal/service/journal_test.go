package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"steadypath/internal/model"
)

// =============================================================================
// MOCKS
// =============================================================================

type mockJournalRepository struct {
	createFn     func(ctx context.Context, entry *model.JournalEntry) error
	getByIDFn    func(ctx context.Context, id int64) (*model.JournalEntry, error)
	listFn       func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.JournalEntry, *time.Time, error)
	getLatestFn  func(ctx context.Context, userID int64) (*model.JournalEntry, error)
	entryDatesFn func(ctx context.Context, userID int64) ([]time.Time, error)
	updateFn     func(ctx context.Context, entry *model.JournalEntry) error
	deleteFn     func(ctx context.Context, id, userID int64) error
}

func (m *mockJournalRepository) Create(ctx context.Context, entry *model.JournalEntry) error {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	entry.ID = 1
	return nil
}

func (m *mockJournalRepository) GetByID(ctx context.Context, id int64) (*model.JournalEntry, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrJournalEntryNotFound
}

func (m *mockJournalRepository) List(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.JournalEntry, *time.Time, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockJournalRepository) GetLatest(ctx context.Context, userID int64) (*model.JournalEntry, error) {
	if m.getLatestFn != nil {
		return m.getLatestFn(ctx, userID)
	}
	return nil, model.ErrJournalEntryNotFound
}

func (m *mockJournalRepository) EntryDates(ctx context.Context, userID int64) ([]time.Time, error) {
	if m.entryDatesFn != nil {
		return m.entryDatesFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockJournalRepository) Update(ctx context.Context, entry *model.JournalEntry) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, entry)
	}
	return nil
}

func (m *mockJournalRepository) Delete(ctx context.Context, id, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

type mockStreakCache struct {
	exists  bool
	dates   []time.Time
	added   []time.Time
	removed []time.Time
	warmed  [][]time.Time
}

func (m *mockStreakCache) AddDate(ctx context.Context, userID int64, date time.Time) error {
	m.added = append(m.added, date)
	return nil
}

func (m *mockStreakCache) RemoveDate(ctx context.Context, userID int64, date time.Time) error {
	m.removed = append(m.removed, date)
	return nil
}

func (m *mockStreakCache) Dates(ctx context.Context, userID int64) ([]time.Time, error) {
	return m.dates, nil
}

func (m *mockStreakCache) Warm(ctx context.Context, userID int64, dates []time.Time) error {
	m.warmed = append(m.warmed, dates)
	m.exists = true
	m.dates = dates
	return nil
}

func (m *mockStreakCache) Exists(ctx context.Context, userID int64) (bool, error) {
	return m.exists, nil
}

// =============================================================================
// STREAK
// =============================================================================

func day(offset int) time.Time {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, offset)
}

func TestCountStreak(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"no entries", nil, 0},
		{"single entry today", []time.Time{day(0)}, 1},
		{"run ending today", []time.Time{day(0), day(-1), day(-2)}, 3},
		{"run ending yesterday still counts", []time.Time{day(-1), day(-2)}, 2},
		{"gap breaks the run", []time.Time{day(0), day(-1), day(-3), day(-4)}, 2},
		{"stale run from last week", []time.Time{day(-5), day(-6)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countStreak(tt.dates, now); got != tt.want {
				t.Errorf("countStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestJournalService_Streak_WarmsCacheOnMiss(t *testing.T) {
	dbDates := []time.Time{day(0), day(-1)}
	repo := &mockJournalRepository{
		entryDatesFn: func(ctx context.Context, userID int64) ([]time.Time, error) {
			return dbDates, nil
		},
	}
	streakCache := &mockStreakCache{exists: false}
	svc := NewJournalService(repo, streakCache)

	streak, err := svc.Streak(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if streak != 2 {
		t.Errorf("streak = %d, want 2", streak)
	}
	if len(streakCache.warmed) != 1 {
		t.Errorf("cache should be warmed exactly once, warmed %d times", len(streakCache.warmed))
	}
}

func TestJournalService_Streak_UsesCacheWhenPresent(t *testing.T) {
	repo := &mockJournalRepository{
		entryDatesFn: func(ctx context.Context, userID int64) ([]time.Time, error) {
			t.Fatal("database should not be hit when the cache is warm")
			return nil, nil
		},
	}
	streakCache := &mockStreakCache{exists: true, dates: []time.Time{day(0)}}
	svc := NewJournalService(repo, streakCache)

	streak, err := svc.Streak(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if streak != 1 {
		t.Errorf("streak = %d, want 1", streak)
	}
}

// =============================================================================
// CREATE / DELETE
// =============================================================================

func TestJournalService_Create(t *testing.T) {
	repo := &mockJournalRepository{}
	streakCache := &mockStreakCache{}
	svc := NewJournalService(repo, streakCache)

	entry, err := svc.Create(context.Background(), 1, &model.CreateJournalEntryRequest{
		EntryDate: "2025-03-10",
		Mood:      6,
		Content:   "Steady day.",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	wantDate := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !entry.EntryDate.Equal(wantDate) {
		t.Errorf("entry date = %v, want %v", entry.EntryDate, wantDate)
	}
	if len(streakCache.added) != 1 || !streakCache.added[0].Equal(wantDate) {
		t.Errorf("streak cache should record the entry date, got %v", streakCache.added)
	}
}

func TestJournalService_Create_Validation(t *testing.T) {
	svc := NewJournalService(&mockJournalRepository{}, &mockStreakCache{})

	cases := []model.CreateJournalEntryRequest{
		{Mood: 5},                                          // no content
		{Mood: 0, Content: "x"},                            // mood too low
		{Mood: 11, Content: "x"},                           // mood too high
		{Mood: 5, Content: "x", EntryDate: "next tuesday"}, // bad date
	}
	for _, req := range cases {
		if _, err := svc.Create(context.Background(), 1, &req); !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("request %+v: expected validation error, got %v", req, err)
		}
	}
}

func TestJournalService_Create_DuplicateDate(t *testing.T) {
	repo := &mockJournalRepository{
		createFn: func(ctx context.Context, entry *model.JournalEntry) error {
			return model.ErrDuplicateEntryDate
		},
	}
	streakCache := &mockStreakCache{}
	svc := NewJournalService(repo, streakCache)

	_, err := svc.Create(context.Background(), 1, &model.CreateJournalEntryRequest{Mood: 5, Content: "x"})
	if !errors.Is(err, model.ErrDuplicateEntryDate) {
		t.Fatalf("expected ErrDuplicateEntryDate, got: %v", err)
	}
	if len(streakCache.added) != 0 {
		t.Error("cache must not record a failed create")
	}
}

func TestJournalService_Delete_RemovesCachedDate(t *testing.T) {
	entryDate := day(0)
	repo := &mockJournalRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.JournalEntry, error) {
			return &model.JournalEntry{ID: id, UserID: 1, EntryDate: entryDate}, nil
		},
	}
	streakCache := &mockStreakCache{}
	svc := NewJournalService(repo, streakCache)

	if err := svc.Delete(context.Background(), 3, 1); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(streakCache.removed) != 1 || !streakCache.removed[0].Equal(entryDate) {
		t.Errorf("streak cache should drop the deleted date, got %v", streakCache.removed)
	}
}

func TestJournalService_Delete_OwnershipEnforced(t *testing.T) {
	repo := &mockJournalRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.JournalEntry, error) {
			return &model.JournalEntry{ID: id, UserID: 99}, nil
		},
	}
	svc := NewJournalService(repo, &mockStreakCache{})

	err := svc.Delete(context.Background(), 3, 1)
	if !errors.Is(err, model.ErrJournalEntryNotFound) {
		t.Fatalf("another user's entry must look like a missing entry, got: %v", err)
	}
}

// =============================================================================
// AUTOFILL
// =============================================================================

func TestJournalService_Autofill(t *testing.T) {
	triggers := "late shift"
	support := "sponsor"
	repo := &mockJournalRepository{
		getLatestFn: func(ctx context.Context, userID int64) (*model.JournalEntry, error) {
			return &model.JournalEntry{Mood: 7, Triggers: &triggers, SupportContact: &support}, nil
		},
	}
	svc := NewJournalService(repo, &mockStreakCache{})

	autofill, err := svc.Autofill(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if autofill.Mood != 7 {
		t.Errorf("mood = %d, want 7", autofill.Mood)
	}
	if autofill.Triggers == nil || *autofill.Triggers != triggers {
		t.Errorf("triggers not carried over: %v", autofill.Triggers)
	}
	if autofill.SupportContact == nil || *autofill.SupportContact != support {
		t.Errorf("support contact not carried over: %v", autofill.SupportContact)
	}
}

func TestJournalService_Autofill_NoEntries(t *testing.T) {
	svc := NewJournalService(&mockJournalRepository{}, &mockStreakCache{})

	autofill, err := svc.Autofill(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if autofill.Mood != 5 {
		t.Errorf("first-time mood default = %d, want 5", autofill.Mood)
	}
	if autofill.Triggers != nil || autofill.SupportContact != nil {
		t.Error("first-time autofill should carry no text fields")
	}
}
