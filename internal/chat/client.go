// internal/chat/client.go

package chat

import (
    "context"
    "encoding/json"
    "log"
    "sync"
    "time"

    "github.com/gorilla/websocket"
)

const (
    // Time allowed to write a message to the peer
    writeWait = 10 * time.Second

    // Time allowed to read the next pong message from the peer
    pongWait = 60 * time.Second

    // Send pings to peer with this period (must be less than pongWait)
    pingPeriod = (pongWait * 9) / 10

    // Maximum message size allowed from peer
    maxMessageSize = 64 * 1024 // 64KB
)

// Client represents one websocket connection of a user
type Client struct {
    hub     *Hub
    conn    *websocket.Conn
    send    chan []byte
    userID  int64
    service Service

    // Rooms this client has joined; owned by the hub goroutine
    rooms map[string]bool

    // Guards send against concurrent close. The hub can evict a slow
    // consumer while readPump is still dispatching inbound frames, so
    // every producer must go through enqueue.
    mu     sync.Mutex
    closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64, service Service) *Client {
    return &Client{
        hub:     hub,
        conn:    conn,
        send:    make(chan []byte, 256),
        userID:  userID,
        service: service,
        rooms:   make(map[string]bool),
    }
}

func (c *Client) Start() {
    c.hub.register <- c
    go c.writePump()
    go c.readPump()
}

func (c *Client) readPump() {
    defer func() {
        c.hub.unregister <- c
        c.conn.Close()
    }()

    c.conn.SetReadLimit(maxMessageSize)
    c.conn.SetReadDeadline(time.Now().Add(pongWait))
    c.conn.SetPongHandler(func(string) error {
        c.conn.SetReadDeadline(time.Now().Add(pongWait))
        return nil
    })

    for {
        _, message, err := c.conn.ReadMessage()
        if err != nil {
            if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
                log.Printf("WebSocket error: %v", err)
            }
            break
        }

        c.processMessage(message)
    }
}

func (c *Client) writePump() {
    ticker := time.NewTicker(pingPeriod)
    defer func() {
        ticker.Stop()
        c.conn.Close()
    }()

    for {
        select {
        case message, ok := <-c.send:
            c.conn.SetWriteDeadline(time.Now().Add(writeWait))
            if !ok {
                c.conn.WriteMessage(websocket.CloseMessage, []byte{})
                return
            }

            w, err := c.conn.NextWriter(websocket.TextMessage)
            if err != nil {
                return
            }
            w.Write(message)

            // Add queued messages to the current websocket message
            n := len(c.send)
            for i := 0; i < n; i++ {
                w.Write([]byte{'\n'})
                w.Write(<-c.send)
            }

            if err := w.Close(); err != nil {
                return
            }

        case <-ticker.C:
            c.conn.SetWriteDeadline(time.Now().Add(writeWait))
            if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
                return
            }
        }
    }
}

func (c *Client) processMessage(data []byte) {
    var msg WSMessage
    if err := json.Unmarshal(data, &msg); err != nil {
        c.sendError("BAD_MESSAGE", "invalid message format")
        return
    }

    ctx := context.Background()

    switch WSMessageType(msg.Type) {
    case WSTypeJoinRoom:
        c.handleJoinRoom(ctx, msg.Data)

    case WSTypeSendMessage:
        c.handleSendMessage(ctx, msg.Data)

    case WSTypeMarkRead:
        c.handleMarkRead(ctx, msg.Data)

    default:
        c.sendError("UNKNOWN_TYPE", "unknown message type: "+msg.Type)
    }
}

func (c *Client) handleJoinRoom(ctx context.Context, data json.RawMessage) {
    var req JoinRoomRequest
    if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
        c.sendError("BAD_MESSAGE", "join_room requires room_id")
        return
    }

    if err := c.service.VerifyParticipant(ctx, req.RoomID, c.userID); err != nil {
        c.sendError("FORBIDDEN", "not a participant of this match")
        return
    }

    select {
    case c.hub.join <- joinRequest{client: c, matchID: req.RoomID}:
    case <-c.hub.ctx.Done():
    }
}

func (c *Client) handleSendMessage(ctx context.Context, data json.RawMessage) {
    var req SendMessageRequest
    if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
        c.sendError("BAD_MESSAGE", "send_message requires room_id and content")
        return
    }

    message, err := c.service.SendMessage(ctx, req.RoomID, c.userID, req.Content)
    if err != nil {
        c.sendError("SEND_FAILED", err.Error())
        return
    }

    // A joined connection sees the message through the room broadcast;
    // echo directly only when this connection never joined the room
    if !c.hub.isClientInRoom(req.RoomID, c) {
        c.sendEnvelope(newMessageEnvelope(message))
    }
}

func (c *Client) handleMarkRead(ctx context.Context, data json.RawMessage) {
    var req MarkReadRequest
    if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
        c.sendError("BAD_MESSAGE", "read requires room_id")
        return
    }

    if err := c.service.MarkRead(ctx, req.RoomID, c.userID); err != nil {
        c.sendError("READ_FAILED", err.Error())
    }
}

func (c *Client) sendEnvelope(envelope WSMessage) {
    data, err := json.Marshal(envelope)
    if err != nil {
        return
    }
    c.enqueue(data)
}

// enqueue queues data for the write pump. Returns false when the buffer is
// full; messages to a closed client are dropped.
func (c *Client) enqueue(data []byte) bool {
    c.mu.Lock()
    defer c.mu.Unlock()

    if c.closed {
        return true
    }
    select {
    case c.send <- data:
        return true
    default:
        return false
    }
}

func (c *Client) sendError(code, message string) {
    c.sendEnvelope(WSMessage{
        Type:      string(WSTypeError),
        Data:      mustMarshal(WSError{Code: code, Message: message}),
        Timestamp: time.Now(),
    })
}

func (c *Client) Close() {
    c.mu.Lock()
    defer c.mu.Unlock()

    if c.closed {
        return
    }
    c.closed = true
    close(c.send)
}
