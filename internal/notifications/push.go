// internal/notifications/push.go

package notifications

import (
    "context"
    "errors"
    "fmt"
    "log"
    "sync"

    firebase "firebase.google.com/go/v4"
    "firebase.google.com/go/v4/messaging"
    "google.golang.org/api/option"
)

var ErrNoTokens = errors.New("no tokens provided")

// PushService sends push notifications to device tokens. It returns the
// tokens the provider reported as no longer registered, so callers can prune
// them from storage.
type PushService interface {
    SendPush(ctx context.Context, notification *PushNotification) (invalid []string, err error)
}

// FCMPushService implements push notifications using Firebase Cloud Messaging
type FCMPushService struct {
    client *messaging.Client
}

// NewFCMPushService creates a new FCM push service from a credentials file
func NewFCMPushService(ctx context.Context, credentialsFile string) (PushService, error) {
    opt := option.WithCredentialsFile(credentialsFile)
    app, err := firebase.NewApp(ctx, nil, opt)
    if err != nil {
        return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
    }

    client, err := app.Messaging(ctx)
    if err != nil {
        return nil, fmt.Errorf("failed to get messaging client: %w", err)
    }

    return &FCMPushService{client: client}, nil
}

// SendPush delivers the notification to each token. Delivery failures for
// individual tokens do not abort the rest of the batch.
func (s *FCMPushService) SendPush(ctx context.Context, notification *PushNotification) ([]string, error) {
    if len(notification.Tokens) == 0 {
        return nil, ErrNoTokens
    }

    base := &messaging.Notification{
        Title: notification.Title,
        Body:  notification.Body,
    }

    var invalid []string
    var lastErr error
    for _, token := range notification.Tokens {
        message := &messaging.Message{
            Token:        token,
            Notification: base,
            Data:         notification.Data,
        }

        if _, err := s.client.Send(ctx, message); err != nil {
            if messaging.IsUnregistered(err) {
                invalid = append(invalid, token)
                continue
            }
            log.Printf("Failed to send push to token %s: %v", token, err)
            lastErr = err
        }
    }

    return invalid, lastErr
}

// MockPushService is a mock implementation for testing
type MockPushService struct {
    mu sync.Mutex

    SentNotifications []*PushNotification

    // InvalidTokens is reported back as unregistered on every send
    InvalidTokens []string
}

func NewMockPushService() *MockPushService {
    return &MockPushService{}
}

func (m *MockPushService) SendPush(ctx context.Context, notification *PushNotification) ([]string, error) {
    if len(notification.Tokens) == 0 {
        return nil, ErrNoTokens
    }

    m.mu.Lock()
    defer m.mu.Unlock()
    m.SentNotifications = append(m.SentNotifications, notification)

    var invalid []string
    for _, token := range notification.Tokens {
        for _, bad := range m.InvalidTokens {
            if token == bad {
                invalid = append(invalid, token)
            }
        }
    }
    return invalid, nil
}

// Sent returns a snapshot of everything sent so far (test helper)
func (m *MockPushService) Sent() []*PushNotification {
    m.mu.Lock()
    defer m.mu.Unlock()
    return append([]*PushNotification(nil), m.SentNotifications...)
}
