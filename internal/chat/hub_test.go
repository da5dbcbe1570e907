// internal/chat/hub_test.go

package chat

import (
    "runtime"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func testEnvelope(text string) WSMessage {
    return WSMessage{
        Type:      string(WSTypeNewMessage),
        Data:      mustMarshal(map[string]string{"content": text}),
        Timestamp: time.Now(),
    }
}

func joinTestClient(t *testing.T, hub *Hub, userID int64, matchID string) *Client {
    t.Helper()

    client := NewClient(hub, nil, userID, nil)
    hub.register <- client
    hub.join <- joinRequest{client: client, matchID: matchID}

    require.Eventually(t, func() bool {
        return hub.isClientInRoom(matchID, client)
    }, time.Second, 5*time.Millisecond)

    return client
}

func TestHubBroadcastReachesAllConnections(t *testing.T) {
    hub := NewHub()
    go hub.Run()
    defer hub.Shutdown()

    // Two devices of user 1 plus one of user 2, all joined to the room
    phone := joinTestClient(t, hub, 1, "1_2")
    laptop := joinTestClient(t, hub, 1, "1_2")
    other := joinTestClient(t, hub, 2, "1_2")

    hub.BroadcastToRoom("1_2", testEnvelope("hello"))

    for _, client := range []*Client{phone, laptop, other} {
        select {
        case <-client.send:
        case <-time.After(time.Second):
            t.Fatalf("client of user %d received nothing", client.userID)
        }
    }
}

func TestHubEvictionDoesNotPanicConcurrentSends(t *testing.T) {
    hub := NewHub()
    go hub.Run()
    defer hub.Shutdown()

    client := joinTestClient(t, hub, 1, "1_2")

    // Fill the outbound buffer so the next delivery evicts the client
    for i := 0; i < cap(client.send); i++ {
        client.send <- []byte("x")
    }
    hub.BroadcastToRoom("1_2", testEnvelope("overflow"))

    require.Eventually(t, func() bool {
        return !hub.IsUserInRoom("1_2", 1)
    }, time.Second, 5*time.Millisecond)

    // An inbound frame still being processed must not crash the process
    require.NotPanics(t, func() {
        client.sendError("SEND_FAILED", "slow consumer")
        client.sendEnvelope(testEnvelope("late"))
    })
}

func TestHubEvictionUnblocksOnShutdown(t *testing.T) {
    hub := NewHub()
    client := NewClient(hub, nil, 1, nil)
    hub.joinRoom(client, "1_2")

    for i := 0; i < cap(client.send); i++ {
        client.send <- []byte("x")
    }

    // Shutdown wins the race: nothing is draining hub.unregister anymore
    hub.cancel()

    before := runtime.NumGoroutine()
    hub.deliver(broadcastRequest{MatchID: "1_2", Message: testEnvelope("overflow")})

    assert.Eventually(t, func() bool {
        return runtime.NumGoroutine() <= before
    }, time.Second, 10*time.Millisecond)
}
