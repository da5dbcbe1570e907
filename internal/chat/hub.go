// internal/chat/hub.go

package chat

import (
    "context"
    "encoding/json"
    "log"
    "sync"
)

// Hub maintains active websocket connections grouped into match rooms
type Hub struct {
    // Clients currently joined to each match room
    rooms    map[string]map[*Client]bool
    roomsMux sync.RWMutex

    // Message broadcast channel
    broadcast chan broadcastRequest

    // Register/unregister clients, join rooms
    register   chan *Client
    unregister chan *Client
    join       chan joinRequest

    // Context for graceful shutdown
    ctx    context.Context
    cancel context.CancelFunc

    // WaitGroup for the run loop
    wg sync.WaitGroup
}

type broadcastRequest struct {
    MatchID string
    Message WSMessage
}

type joinRequest struct {
    client  *Client
    matchID string
}

func NewHub() *Hub {
    ctx, cancel := context.WithCancel(context.Background())

    return &Hub{
        rooms:      make(map[string]map[*Client]bool),
        broadcast:  make(chan broadcastRequest, 256),
        register:   make(chan *Client),
        unregister: make(chan *Client),
        join:       make(chan joinRequest),
        ctx:        ctx,
        cancel:     cancel,
    }
}

func (h *Hub) Run() {
    h.wg.Add(1)
    defer func() {
        h.cleanup()
        h.wg.Done()
    }()

    for {
        select {
        case client := <-h.register:
            h.registerClient(client)

        case client := <-h.unregister:
            h.unregisterClient(client)

        case req := <-h.join:
            h.joinRoom(req.client, req.matchID)

        case req := <-h.broadcast:
            h.deliver(req)

        case <-h.ctx.Done():
            return
        }
    }
}

func (h *Hub) registerClient(client *Client) {
    RecordConnection(1)
    log.Printf("User %d connected to chat", client.userID)
}

func (h *Hub) unregisterClient(client *Client) {
    h.roomsMux.Lock()
    for matchID := range client.rooms {
        if room, exists := h.rooms[matchID]; exists {
            delete(room, client)
            if len(room) == 0 {
                delete(h.rooms, matchID)
            }
        }
    }
    h.roomsMux.Unlock()

    client.Close()
    RecordConnection(-1)
    log.Printf("User %d disconnected from chat", client.userID)
}

func (h *Hub) joinRoom(client *Client, matchID string) {
    h.roomsMux.Lock()
    defer h.roomsMux.Unlock()

    if h.rooms[matchID] == nil {
        h.rooms[matchID] = make(map[*Client]bool)
    }
    h.rooms[matchID][client] = true
    client.rooms[matchID] = true
}

func (h *Hub) deliver(req broadcastRequest) {
    h.roomsMux.RLock()
    defer h.roomsMux.RUnlock()

    room, exists := h.rooms[req.MatchID]
    if !exists {
        return
    }

    data, err := json.Marshal(req.Message)
    if err != nil {
        log.Printf("Error marshalling broadcast: %v", err)
        return
    }

    for client := range room {
        if !client.enqueue(data) {
            // Slow consumer, drop the connection
            go func(c *Client) {
                select {
                case h.unregister <- c:
                case <-h.ctx.Done():
                }
            }(client)
        }
    }
}

// BroadcastToRoom queues a message for every connection joined to the match
// room, the sender's own devices included
func (h *Hub) BroadcastToRoom(matchID string, message WSMessage) {
    select {
    case h.broadcast <- broadcastRequest{MatchID: matchID, Message: message}:
    case <-h.ctx.Done():
    }
}

// isClientInRoom reports whether this exact connection has joined the room
func (h *Hub) isClientInRoom(matchID string, client *Client) bool {
    h.roomsMux.RLock()
    defer h.roomsMux.RUnlock()
    return h.rooms[matchID][client]
}

// IsUserInRoom reports whether the user has an active client in the room
func (h *Hub) IsUserInRoom(matchID string, userID int64) bool {
    h.roomsMux.RLock()
    defer h.roomsMux.RUnlock()

    for client := range h.rooms[matchID] {
        if client.userID == userID {
            return true
        }
    }
    return false
}

func (h *Hub) cleanup() {
    h.roomsMux.Lock()
    defer h.roomsMux.Unlock()

    for _, room := range h.rooms {
        for client := range room {
            client.Close()
        }
    }
    h.rooms = make(map[string]map[*Client]bool)
}

func (h *Hub) Shutdown() {
    h.cancel()
    h.wg.Wait()
}

func (h *Hub) GetActiveRooms() int {
    h.roomsMux.RLock()
    defer h.roomsMux.RUnlock()
    return len(h.rooms)
}

func mustMarshal(v interface{}) json.RawMessage {
    data, err := json.Marshal(v)
    if err != nil {
        log.Printf("Failed to marshal data: %v", err)
        return json.RawMessage(`{}`)
    }
    return data
}
