package reminder

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"steadypath/internal/model"
)

// =============================================================================
// MOCKS
// =============================================================================

type mockPreferenceSource struct {
	listDailyFn func(ctx context.Context) ([]model.ReminderPreference, error)
}

func (m *mockPreferenceSource) ListDaily(ctx context.Context) ([]model.ReminderPreference, error) {
	if m.listDailyFn != nil {
		return m.listDailyFn(ctx)
	}
	return nil, nil
}

type mockSender struct {
	mu     sync.Mutex
	sendFn func(ctx context.Context, userID int64) (Outcome, error)
	calls  []int64
}

func (m *mockSender) Send(ctx context.Context, userID int64) (Outcome, error) {
	m.mu.Lock()
	m.calls = append(m.calls, userID)
	m.mu.Unlock()
	if m.sendFn != nil {
		return m.sendFn(ctx, userID)
	}
	return OutcomeSent, nil
}

func (m *mockSender) sentTo() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]int64(nil), m.calls...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type mockTokenSource struct {
	getByUserIDFn func(ctx context.Context, userID int64) ([]model.DeviceToken, error)
}

func (m *mockTokenSource) GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, nil
}

type mockPushClient struct {
	mu     sync.Mutex
	sendFn func(ctx context.Context, tokens []string, title, body string, data map[string]string) error
	sends  int
}

func (m *mockPushClient) SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	m.mu.Lock()
	m.sends++
	m.mu.Unlock()
	if m.sendFn != nil {
		return m.sendFn(ctx, tokens, title, body, data)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func strptr(s string) *string { return &s }

func dailyPref(userID int64, deliveryTime, tz string) model.ReminderPreference {
	pref := model.ReminderPreference{UserID: userID, Frequency: model.FrequencyDaily}
	if deliveryTime != "" {
		pref.DeliveryTime = strptr(deliveryTime)
	}
	if tz != "" {
		pref.Timezone = strptr(tz)
	}
	return pref
}

// utc builds an instant at the given UTC wall-clock time.
func utc(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
}

// =============================================================================
// WINDOW DECISION
// =============================================================================

func TestShouldSend_WindowBounds(t *testing.T) {
	pref := dailyPref(1, "20:00", "UTC")

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"exactly at delivery time", utc(20, 0), true},
		{"just inside the window", utc(20, 14), true},
		{"upper bound is exclusive", utc(20, 15), false},
		{"one minute before", utc(19, 59), false},
		{"well after the window", utc(23, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldSend(pref, tt.now); got != tt.want {
				t.Errorf("shouldSend at %s = %v, want %v", tt.now.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestShouldSend_WindowDoesNotWrapMidnight(t *testing.T) {
	// 23:55 delivery, tick at 00:05 the next day: only ten minutes elapsed on
	// a wrapped clock, but the window must not wrap.
	pref := dailyPref(1, "23:55", "UTC")
	now := time.Date(2025, time.March, 11, 0, 5, 0, 0, time.UTC)

	if shouldSend(pref, now) {
		t.Error("expected no match across the midnight boundary")
	}
}

func TestShouldSend_FrequencyFilter(t *testing.T) {
	now := utc(20, 5)
	for _, freq := range []string{model.FrequencyWeekly, model.FrequencyOff} {
		pref := model.ReminderPreference{
			UserID:       1,
			Frequency:    freq,
			DeliveryTime: strptr("20:00"),
			Timezone:     strptr("UTC"),
		}
		if shouldSend(pref, now) {
			t.Errorf("frequency %q matched despite time match", freq)
		}
	}
}

func TestShouldSend_TimezoneDefaultsToUTC(t *testing.T) {
	// No timezone set: 20:00 delivery should match a 20:05 UTC tick.
	pref := dailyPref(1, "20:00", "")
	if !shouldSend(pref, utc(20, 5)) {
		t.Error("missing timezone should behave as UTC")
	}
}

func TestShouldSend_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	pref := dailyPref(1, "20:00", "Mars/Olympus_Mons")
	if !shouldSend(pref, utc(20, 5)) {
		t.Error("unknown timezone should fall back to UTC, not exclude the record")
	}
}

func TestShouldSend_RespectsTimezone(t *testing.T) {
	// 09:00 delivery in Denver. A tick at 16:05 UTC is 09:05 local under
	// standard time (UTC-7) but 10:05 under DST (UTC-6), so the same UTC
	// instant matches in January and misses in July.
	pref := dailyPref(1, "9:00", "America/Denver")

	winter := time.Date(2025, time.January, 15, 16, 5, 0, 0, time.UTC)
	if !shouldSend(pref, winter) {
		t.Error("expected 16:05 UTC to match a 09:00 Denver delivery under standard time")
	}

	summer := time.Date(2025, time.July, 1, 16, 5, 0, 0, time.UTC)
	if shouldSend(pref, summer) {
		t.Error("16:05 UTC is 10:05 in Denver during DST and must not match")
	}
}

func TestParseDeliveryTime(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantOK  bool
	}{
		{"20:00", 1200, true},
		{"9:05", 545, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"-1:30", 0, false},
		{"noon", 0, false},
		{"12", 0, false},
		{"12:3x", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseDeliveryTime(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseDeliveryTime(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

// =============================================================================
// RUN TICK
// =============================================================================

func TestRunTick_MissingDeliveryTimeIsSkippedQuietly(t *testing.T) {
	prefs := &mockPreferenceSource{
		listDailyFn: func(ctx context.Context) ([]model.ReminderPreference, error) {
			return []model.ReminderPreference{
				dailyPref(1, "", "UTC"),      // incomplete configuration
				dailyPref(2, "20:00", "UTC"), // valid, in window
			}, nil
		},
	}
	sender := &mockSender{}
	job := NewJob(prefs, sender)

	report, err := job.RunTick(context.Background(), utc(20, 0))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if report.Scanned != 2 {
		t.Errorf("scanned = %d, want 2", report.Scanned)
	}
	if report.Matched != 1 {
		t.Errorf("matched = %d, want 1", report.Matched)
	}
	if got := sender.sentTo(); len(got) != 1 || got[0] != 2 {
		t.Errorf("dispatched to %v, want [2]", got)
	}
}

func TestRunTick_MalformedDeliveryTimeIsSkippedQuietly(t *testing.T) {
	prefs := &mockPreferenceSource{
		listDailyFn: func(ctx context.Context) ([]model.ReminderPreference, error) {
			return []model.ReminderPreference{
				dailyPref(1, "later", "UTC"),
				dailyPref(2, "25:99", "UTC"),
			}, nil
		},
	}
	sender := &mockSender{}
	job := NewJob(prefs, sender)

	report, err := job.RunTick(context.Background(), utc(20, 0))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if report.Matched != 0 {
		t.Errorf("matched = %d, want 0", report.Matched)
	}
}

func TestRunTick_PreferenceFetchFailureAbortsTick(t *testing.T) {
	prefs := &mockPreferenceSource{
		listDailyFn: func(ctx context.Context) ([]model.ReminderPreference, error) {
			return nil, errors.New("store unavailable")
		},
	}
	sender := &mockSender{}
	job := NewJob(prefs, sender)

	_, err := job.RunTick(context.Background(), utc(20, 0))
	if err == nil {
		t.Fatal("expected a job-level error when the bulk fetch fails")
	}
	if len(sender.sentTo()) != 0 {
		t.Error("no dispatch should be attempted when the fetch fails")
	}
}

func TestRunTick_PartialFailureIsolation(t *testing.T) {
	prefs := &mockPreferenceSource{
		listDailyFn: func(ctx context.Context) ([]model.ReminderPreference, error) {
			return []model.ReminderPreference{
				dailyPref(1, "20:00", "UTC"),
				dailyPref(2, "20:00", "UTC"),
				dailyPref(3, "20:00", "UTC"),
			}, nil
		},
	}
	sender := &mockSender{
		sendFn: func(ctx context.Context, userID int64) (Outcome, error) {
			if userID == 2 {
				return OutcomeSkipped, errors.New("token lookup failed")
			}
			return OutcomeSent, nil
		},
	}
	job := NewJob(prefs, sender)

	report, err := job.RunTick(context.Background(), utc(20, 0))
	if err != nil {
		t.Fatalf("expected no tick-level error, got: %v", err)
	}

	if got := sender.sentTo(); len(got) != 3 {
		t.Errorf("attempted %v, want all three users attempted", got)
	}
	if report.Sent != 2 {
		t.Errorf("sent = %d, want 2", report.Sent)
	}
	if report.Failed != 1 {
		t.Errorf("failed = %d, want 1", report.Failed)
	}
}

func TestRunTick_EndToEndTimezoneExample(t *testing.T) {
	// Two users with the same 09:00 delivery time in different zones. A
	// January tick at 16:05 UTC is 09:05 in Denver under standard time
	// (match) and 16:05 in UTC (no match).
	prefs := &mockPreferenceSource{
		listDailyFn: func(ctx context.Context) ([]model.ReminderPreference, error) {
			return []model.ReminderPreference{
				dailyPref(10, "09:00", "America/Denver"),
				dailyPref(20, "09:00", "UTC"),
			}, nil
		},
	}
	sender := &mockSender{}
	job := NewJob(prefs, sender)

	now := time.Date(2025, time.January, 15, 16, 5, 0, 0, time.UTC)
	report, err := job.RunTick(context.Background(), now)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if report.Matched != 1 {
		t.Errorf("matched = %d, want 1", report.Matched)
	}
	if got := sender.sentTo(); len(got) != 1 || got[0] != 10 {
		t.Errorf("dispatched to %v, want [10]", got)
	}
}

func TestRunTick_SkippedCountedSeparatelyFromFailures(t *testing.T) {
	prefs := &mockPreferenceSource{
		listDailyFn: func(ctx context.Context) ([]model.ReminderPreference, error) {
			return []model.ReminderPreference{
				dailyPref(1, "20:00", "UTC"),
				dailyPref(2, "20:00", "UTC"),
			}, nil
		},
	}
	sender := &mockSender{
		sendFn: func(ctx context.Context, userID int64) (Outcome, error) {
			if userID == 1 {
				return OutcomeSkipped, nil // no device token
			}
			return OutcomeSent, nil
		},
	}
	job := NewJob(prefs, sender)

	report, err := job.RunTick(context.Background(), utc(20, 0))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if report.Sent != 1 || report.Skipped != 1 || report.Failed != 0 {
		t.Errorf("report = %+v, want sent=1 skipped=1 failed=0", report)
	}
}

// =============================================================================
// SENDER
// =============================================================================

func TestJournalSender_NoTokenIsSkippedNotError(t *testing.T) {
	tokens := &mockTokenSource{
		getByUserIDFn: func(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
			return nil, nil // user never enabled push
		},
	}
	push := &mockPushClient{}
	sender := NewJournalSender(tokens, push)

	outcome, err := sender.Send(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Errorf("outcome = %v, want OutcomeSkipped", outcome)
	}
	if push.sends != 0 {
		t.Error("no push should be attempted without a token")
	}
}

func TestJournalSender_SendsFixedPayloadToAllTokens(t *testing.T) {
	tokens := &mockTokenSource{
		getByUserIDFn: func(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
			return []model.DeviceToken{
				{Token: "tok-a", Platform: model.PlatformIOS},
				{Token: "tok-b", Platform: model.PlatformAndroid},
			}, nil
		},
	}

	var gotTokens []string
	var gotTitle, gotBody string
	var gotData map[string]string
	push := &mockPushClient{
		sendFn: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
			gotTokens, gotTitle, gotBody, gotData = tokens, title, body, data
			return nil
		},
	}
	sender := NewJournalSender(tokens, push)

	outcome, err := sender.Send(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if outcome != OutcomeSent {
		t.Errorf("outcome = %v, want OutcomeSent", outcome)
	}
	if len(gotTokens) != 2 {
		t.Errorf("pushed to %d tokens, want 2", len(gotTokens))
	}
	if gotTitle != "Time to Journal! 📖" {
		t.Errorf("title = %q", gotTitle)
	}
	if gotBody != "Take a moment to document your thoughts for today." {
		t.Errorf("body = %q", gotBody)
	}
	if gotData["link"] != "/journal" {
		t.Errorf("link = %q, want /journal", gotData["link"])
	}
}

func TestJournalSender_PushFailureIsDeliveryError(t *testing.T) {
	tokens := &mockTokenSource{
		getByUserIDFn: func(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
			return []model.DeviceToken{{Token: "tok-a"}}, nil
		},
	}
	push := &mockPushClient{
		sendFn: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
			return errors.New("invalid registration token")
		},
	}
	sender := NewJournalSender(tokens, push)

	if _, err := sender.Send(context.Background(), 1); err == nil {
		t.Fatal("expected a delivery error")
	}
}
