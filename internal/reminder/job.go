// Package reminder implements the scheduled journal-reminder dispatch: every
// tick it scans all daily reminder preferences, matches the current instant
// against each user's delivery window in their own timezone, and fans pushes
// out to the matched users.
package reminder

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"steadypath/internal/model"
)

// windowMinutes is the length of the delivery window: a tick matches a user
// when their local time is within [delivery_time, delivery_time+15min).
const windowMinutes = 15

// PreferenceSource is the bulk fetch the job runs once per tick. It must
// return every daily-frequency preference in a single query, not one fetch
// per user.
type PreferenceSource interface {
	ListDaily(ctx context.Context) ([]model.ReminderPreference, error)
}

// Outcome of one per-user dispatch attempt.
type Outcome int

const (
	// OutcomeSent means a push was handed to the messaging service.
	OutcomeSent Outcome = iota
	// OutcomeSkipped means the user has no registered device; not an error.
	OutcomeSkipped
)

// Sender delivers the reminder to one user. Implementations resolve the
// user's device tokens themselves; an error is a delivery failure for that
// user only.
type Sender interface {
	Send(ctx context.Context, userID int64) (Outcome, error)
}

// Report summarizes one tick.
type Report struct {
	Scanned int // daily preference rows fetched
	Matched int // users inside their delivery window
	Sent    int
	Skipped int // matched but no device token
	Failed  int
}

// Job is the reminder dispatcher. It holds no state between ticks; the same
// (preferences, instant) input always produces the same decisions.
type Job struct {
	prefs  PreferenceSource
	sender Sender
}

func NewJob(prefs PreferenceSource, sender Sender) *Job {
	return &Job{prefs: prefs, sender: sender}
}

// RunTick executes one dispatch cycle for the given instant. The caller
// supplies nowUTC (the cron trigger passes time.Now().UTC()) so tests can pin
// the clock.
//
// A failure of the bulk preference fetch aborts the whole tick; the next
// scheduled tick retries naturally. Per-user failures are logged, counted,
// and never stop the rest of the batch.
func (j *Job) RunTick(ctx context.Context, nowUTC time.Time) (Report, error) {
	prefs, err := j.prefs.ListDaily(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list daily preferences: %w", err)
	}

	report := Report{Scanned: len(prefs)}

	var matched []int64
	for _, pref := range prefs {
		if shouldSend(pref, nowUTC) {
			matched = append(matched, pref.UserID)
		}
	}
	report.Matched = len(matched)

	// Scatter the sends and wait for every one to settle, success or not.
	// Each user's outcome is independent; nothing here may cancel a sibling.
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, userID := range matched {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()

			outcome, err := j.sender.Send(ctx, userID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				log.Printf("[ReminderJob] dispatch failed: user=%d err=%v", userID, err)
				return
			}
			if outcome == OutcomeSkipped {
				report.Skipped++
			} else {
				report.Sent++
			}
		}(userID)
	}
	wg.Wait()

	log.Printf("[ReminderJob] tick done: scanned=%d matched=%d sent=%d skipped=%d failed=%d",
		report.Scanned, report.Matched, report.Sent, report.Skipped, report.Failed)
	return report, nil
}

// shouldSend decides whether one preference matches the given instant.
//
// The window is [delivery_time, delivery_time+15min) in the user's local
// wall-clock time and deliberately does not wrap past midnight: a delivery
// time of 23:55 never matches a 00:05 tick, even though only ten minutes
// elapsed. Existing installs depend on this, so it stays.
//
// Records with a missing or malformed delivery time never match. A missing
// or unknown timezone falls back to UTC rather than failing.
func shouldSend(pref model.ReminderPreference, nowUTC time.Time) bool {
	if pref.Frequency != model.FrequencyDaily {
		return false
	}
	if pref.DeliveryTime == nil {
		return false
	}

	prefMinutes, ok := parseDeliveryTime(*pref.DeliveryTime)
	if !ok {
		return false
	}

	loc := time.UTC
	if pref.Timezone != nil && *pref.Timezone != "" {
		if l, err := time.LoadLocation(*pref.Timezone); err == nil {
			loc = l
		}
	}

	local := nowUTC.In(loc)
	nowMinutes := local.Hour()*60 + local.Minute()

	diff := nowMinutes - prefMinutes
	return diff >= 0 && diff < windowMinutes
}

// parseDeliveryTime parses "H:MM" or "HH:MM" into minutes since midnight.
// Returns false for anything non-numeric or out of range.
func parseDeliveryTime(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
