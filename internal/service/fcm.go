package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMClient wraps the Firebase Cloud Messaging client used for every push we
// send: journal reminders, assignment notices, and system messages.
//
// The mobile app registers with FCM, gets a device token, and posts it to
// /notifications/tokens (we keep them in the device_tokens table). To reach a
// user we hand their tokens to FCM, which delivers even when the app is
// closed.
//
// Credentials come from the Firebase Console service account: project ID,
// client email, and the PEM private key.
type FCMClient struct {
	client *messaging.Client
}

// NewFCMClient builds a messaging client from environment credentials.
//
// The private key arrives from .env with literal "\n" escapes; the SDK wants
// real newlines in the PEM block, so we unescape first.
func NewFCMClient(ctx context.Context, projectID, clientEmail, privateKey string) (*FCMClient, error) {
	privateKey = strings.ReplaceAll(privateKey, "\\n", "\n")

	// Equivalent to the JSON key file downloaded from the console.
	credsJSON := fmt.Sprintf(`{
		"type": "service_account",
		"project_id": %q,
		"private_key": %q,
		"client_email": %q,
		"token_uri": "https://oauth2.googleapis.com/token"
	}`, projectID, privateKey, clientEmail)

	opt := option.WithCredentialsJSON([]byte(credsJSON))
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	log.Printf("[FCM] Initialized for project: %s", projectID)
	return &FCMClient{client: client}, nil
}

// SendToTokens pushes one notification to multiple device tokens in a single
// multicast call. The data map is an invisible payload the app handles in the
// background (deep link, record IDs).
//
// FCM caps multicast at 500 tokens per request; a single user's devices never
// approach that.
func (c *FCMClient) SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			// High priority so reminders land even in battery-saving mode.
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
	if data != nil {
		message.Data = data
	}

	response, err := c.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("send multicast: %w", err)
	}

	log.Printf("[FCM] Sent to %d tokens: %d success, %d failure",
		len(tokens), response.SuccessCount, response.FailureCount)
	for i, resp := range response.Responses {
		if !resp.Success {
			log.Printf("[FCM] Token %d failed: %v", i, resp.Error)
		}
	}

	return nil
}

// SendToToken is a single-token convenience wrapper around SendToTokens.
func (c *FCMClient) SendToToken(ctx context.Context, token, title, body string, data map[string]string) error {
	return c.SendToTokens(ctx, []string{token}, title, body, data)
}
