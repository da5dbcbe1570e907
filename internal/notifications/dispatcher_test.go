// internal/notifications/dispatcher_test.go

package notifications

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/emberlyapp/emberly-backend/internal/matches"
    "github.com/emberlyapp/emberly-backend/internal/users"
)

func newTestUsers() *users.MemoryStore {
    store := users.NewMemoryStore()
    store.AddUser(&users.UserInfo{ID: 1, Name: "Ada", Email: "ada@example.com", Phone: "+15550000001"})
    store.AddUser(&users.UserInfo{ID: 2, Name: "Ben", Email: "ben@example.com"})
    return store
}

func registerToken(t *testing.T, repo TokenRepository, userID int64, token string) {
    t.Helper()
    err := repo.SaveToken(context.Background(), &PushToken{
        UserID:    userID,
        Token:     token,
        Platform:  "ios",
        CreatedAt: time.Now(),
    })
    require.NoError(t, err)
}

func TestNotifyMatchPushesBothUsers(t *testing.T) {
    push := NewMockPushService()
    tokens := NewMemoryTokenRepository()
    registerToken(t, tokens, 1, "token-1")
    registerToken(t, tokens, 2, "token-2")

    dispatcher := NewDispatcher(push, nil, nil, tokens, newTestUsers())
    dispatcher.NotifyMatch(context.Background(), matches.NewMatch(1, 2, time.Now()))

    sent := push.Sent()
    require.Len(t, sent, 2)
    for _, n := range sent {
        assert.Equal(t, "It's a match!", n.Title)
        assert.Equal(t, "match", n.Data["type"])
        assert.Equal(t, "1_2", n.Data["match_id"])
    }
}

func TestNotifyMatchPrunesUnregisteredTokens(t *testing.T) {
    push := NewMockPushService()
    push.InvalidTokens = []string{"stale"}

    tokens := NewMemoryTokenRepository()
    registerToken(t, tokens, 1, "stale")
    registerToken(t, tokens, 1, "fresh")
    registerToken(t, tokens, 2, "token-2")

    dispatcher := NewDispatcher(push, nil, nil, tokens, newTestUsers())
    dispatcher.NotifyMatch(context.Background(), matches.NewMatch(1, 2, time.Now()))

    remaining, err := tokens.GetTokens(context.Background(), 1)
    require.NoError(t, err)
    assert.Equal(t, []string{"fresh"}, remaining)
}

func TestNotifyMatchSendsEmailWhenConfigured(t *testing.T) {
    push := NewMockPushService()
    email := NewMockEmailService()
    tokens := NewMemoryTokenRepository()

    dispatcher := NewDispatcher(push, email, nil, tokens, newTestUsers())
    dispatcher.NotifyMatch(context.Background(), matches.NewMatch(1, 2, time.Now()))

    require.Len(t, email.SentEmails, 2)
    recipients := []string{email.SentEmails[0].To, email.SentEmails[1].To}
    assert.ElementsMatch(t, []string{"ada@example.com", "ben@example.com"}, recipients)
}

func TestNotifyMatchSendsSMSOnlyWithPhone(t *testing.T) {
    sms := NewMockSMSService()
    tokens := NewMemoryTokenRepository()

    dispatcher := NewDispatcher(nil, nil, sms, tokens, newTestUsers())
    dispatcher.NotifyMatch(context.Background(), matches.NewMatch(1, 2, time.Now()))

    // Only user 1 has a phone number on file
    require.Len(t, sms.SentMessages, 1)
    assert.Equal(t, "+15550000001", sms.SentMessages[0].To)
}

func TestNotifyMessageUsesSenderName(t *testing.T) {
    push := NewMockPushService()
    tokens := NewMemoryTokenRepository()
    registerToken(t, tokens, 2, "token-2")

    dispatcher := NewDispatcher(push, nil, nil, tokens, newTestUsers())
    dispatcher.NotifyMessage(context.Background(), 2, 1, "1_2", "see you at 8")

    sent := push.Sent()
    require.Len(t, sent, 1)
    assert.Equal(t, "Ada", sent[0].Title)
    assert.Equal(t, "see you at 8", sent[0].Body)
    assert.Equal(t, "message", sent[0].Data["type"])
}

func TestNotifyMessageSkipsUsersWithoutTokens(t *testing.T) {
    push := NewMockPushService()
    tokens := NewMemoryTokenRepository()

    dispatcher := NewDispatcher(push, nil, nil, tokens, newTestUsers())
    dispatcher.NotifyMessage(context.Background(), 2, 1, "1_2", "hello")

    assert.Empty(t, push.Sent())
}
