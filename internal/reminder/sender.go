package reminder

import (
	"context"
	"fmt"

	"steadypath/internal/model"
)

// Fixed reminder content. The payload is identical for every user; the link
// tells the app which screen to open.
const (
	pushTitle = "Time to Journal! 📖"
	pushBody  = "Take a moment to document your thoughts for today."
	pushLink  = "/journal"
)

// TokenSource resolves a user's registered device tokens.
type TokenSource interface {
	GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error)
}

// PushClient is the messaging backend (FCM in production).
type PushClient interface {
	SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

// JournalSender is the dispatch job's Sender: it looks up the user's device
// tokens and pushes the fixed journal prompt to all of them.
type JournalSender struct {
	tokens TokenSource
	push   PushClient
}

func NewJournalSender(tokens TokenSource, push PushClient) *JournalSender {
	return &JournalSender{tokens: tokens, push: push}
}

// Send delivers the reminder to one user. A user with no registered device
// is a Skipped outcome, not an error; token-lookup and push failures are
// returned to the job, which counts and logs them without touching other
// users.
func (s *JournalSender) Send(ctx context.Context, userID int64) (Outcome, error) {
	tokens, err := s.tokens.GetByUserID(ctx, userID)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("lookup tokens: %w", err)
	}
	if len(tokens) == 0 {
		return OutcomeSkipped, nil
	}

	tokenStrings := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrings[i] = t.Token
	}

	data := map[string]string{"link": pushLink}
	if err := s.push.SendToTokens(ctx, tokenStrings, pushTitle, pushBody, data); err != nil {
		return OutcomeSkipped, fmt.Errorf("send push: %w", err)
	}
	return OutcomeSent, nil
}
