// internal/notifications/email.go

package notifications

import (
    "context"
    "fmt"
    "log"
    "sync"

    "github.com/sendgrid/sendgrid-go"
    "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends email notifications
type EmailService interface {
    SendEmail(ctx context.Context, notification *EmailNotification) error
}

// SendGridEmailService implements email notifications using SendGrid
type SendGridEmailService struct {
    apiKey   string
    from     string
    fromName string
}

// NewSendGridEmailService creates a new SendGrid email service
func NewSendGridEmailService(apiKey, from string) (EmailService, error) {
    if apiKey == "" || from == "" {
        return nil, fmt.Errorf("incomplete SendGrid configuration")
    }

    return &SendGridEmailService{
        apiKey:   apiKey,
        from:     from,
        fromName: "Emberly",
    }, nil
}

// SendEmail sends a single email via SendGrid
func (s *SendGridEmailService) SendEmail(ctx context.Context, notification *EmailNotification) error {
    from := mail.NewEmail(s.fromName, s.from)
    to := mail.NewEmail("", notification.To)

    message := mail.NewSingleEmail(from, notification.Subject, to, notification.Body, "")
    client := sendgrid.NewSendClient(s.apiKey)

    response, err := client.Send(message)
    if err != nil {
        return fmt.Errorf("failed to send email via SendGrid: %w", err)
    }
    if response.StatusCode >= 400 {
        return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
    }

    log.Printf("Successfully sent email to %s", notification.To)
    return nil
}

// MockEmailService is a mock implementation for testing
type MockEmailService struct {
    mu         sync.Mutex
    SentEmails []*EmailNotification
}

func NewMockEmailService() *MockEmailService {
    return &MockEmailService{}
}

func (m *MockEmailService) SendEmail(ctx context.Context, notification *EmailNotification) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.SentEmails = append(m.SentEmails, notification)
    return nil
}
