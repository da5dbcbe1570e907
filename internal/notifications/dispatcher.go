// internal/notifications/dispatcher.go
// Dispatcher fans match and message events out to the configured delivery
// channels. It is always best-effort: a failed delivery is logged and
// counted, never surfaced to the caller.

package notifications

import (
    "context"
    "fmt"
    "log"
    "sync"

    "github.com/emberlyapp/emberly-backend/internal/matches"
    "github.com/emberlyapp/emberly-backend/internal/users"
)

type Dispatcher struct {
    push   PushService
    email  EmailService
    sms    SMSService
    tokens TokenRepository
    users  users.Store
}

// NewDispatcher creates a dispatcher. email and sms may be nil when those
// channels are disabled; push may be nil as well.
func NewDispatcher(push PushService, email EmailService, sms SMSService, tokens TokenRepository, userStore users.Store) *Dispatcher {
    return &Dispatcher{
        push:   push,
        email:  email,
        sms:    sms,
        tokens: tokens,
        users:  userStore,
    }
}

// NotifyMatch tells both participants about a new match
func (d *Dispatcher) NotifyMatch(ctx context.Context, match *matches.Match) {
    var wg sync.WaitGroup
    for _, pair := range []struct{ to, other int64 }{
        {match.UserA, match.UserB},
        {match.UserB, match.UserA},
    } {
        wg.Add(1)
        go func(to, other int64) {
            defer wg.Done()
            d.notifyMatchUser(ctx, to, other, match.ID)
        }(pair.to, pair.other)
    }
    wg.Wait()
}

func (d *Dispatcher) notifyMatchUser(ctx context.Context, userID, otherUserID int64, matchID string) {
    otherName := d.displayName(ctx, otherUserID)

    title := "It's a match!"
    body := fmt.Sprintf("You and %s liked each other", otherName)
    data := map[string]string{
        "type":     "match",
        "match_id": matchID,
    }
    d.sendPush(ctx, userID, title, body, data)

    if d.email != nil {
        if user, err := d.users.GetUser(ctx, userID); err == nil && user.Email != "" {
            err := d.email.SendEmail(ctx, &EmailNotification{
                To:      user.Email,
                Subject: title,
                Body:    body + ". Open the app to say hi.",
            })
            d.record("email", err)
        }
    }

    if d.sms != nil {
        if user, err := d.users.GetUser(ctx, userID); err == nil && user.Phone != "" {
            err := d.sms.SendSMS(ctx, &SMSNotification{
                To:      user.Phone,
                Message: body + ". Open the app to say hi.",
            })
            d.record("sms", err)
        }
    }
}

// NotifyMessage tells the recipient about a new chat message. Only push is
// used here; email and SMS would be far too noisy per message.
func (d *Dispatcher) NotifyMessage(ctx context.Context, recipientID, senderID int64, matchID, preview string) {
    senderName := d.displayName(ctx, senderID)

    data := map[string]string{
        "type":     "message",
        "match_id": matchID,
    }
    d.sendPush(ctx, recipientID, senderName, preview, data)
}

func (d *Dispatcher) sendPush(ctx context.Context, userID int64, title, body string, data map[string]string) {
    if d.push == nil {
        return
    }

    tokens, err := d.tokens.GetTokens(ctx, userID)
    if err != nil {
        log.Printf("Failed to load push tokens for user %d: %v", userID, err)
        return
    }
    if len(tokens) == 0 {
        return
    }

    invalid, err := d.push.SendPush(ctx, &PushNotification{
        Tokens: tokens,
        Title:  title,
        Body:   body,
        Data:   data,
    })
    d.record("push", err)

    // Drop tokens the provider no longer recognizes
    for _, token := range invalid {
        if derr := d.tokens.DeleteToken(ctx, token); derr != nil {
            log.Printf("Failed to prune push token: %v", derr)
            continue
        }
        RecordTokenPruned()
    }
}

func (d *Dispatcher) displayName(ctx context.Context, userID int64) string {
    user, err := d.users.GetUser(ctx, userID)
    if err != nil || user.Name == "" {
        return "Someone"
    }
    return user.Name
}

func (d *Dispatcher) record(channel string, err error) {
    if err != nil {
        log.Printf("Notification delivery failed on %s: %v", channel, err)
        RecordNotification(channel, "error")
        return
    }
    RecordNotification(channel, "ok")
}
