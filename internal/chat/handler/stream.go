package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"GoConvo/internal/common"
	"GoConvo/internal/view"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second

	// sendBuffer bounds how many unread view snapshots a slow client may
	// queue before the connection is dropped.
	sendBuffer = 16
)

type streamEnvelope struct {
	Type          string                  `json:"type"`
	Messages      []view.MessageView      `json:"messages,omitempty"`
	Conversations []view.ConversationView `json:"conversations,omitempty"`
}

// StreamMessages upgrades to a websocket and pushes the full message view
// of one conversation every time it changes. The first frame arrives
// immediately with the current state.
func (h *ChatHandler) StreamMessages(w http.ResponseWriter, r *http.Request) {
	q, ok := messageQueryFromRequest(w, r)
	if !ok {
		return
	}
	userID := common.UserIDFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	send := make(chan streamEnvelope, sendBuffer)
	sub, err := h.chats.SubscribeMessages(r.Context(), userID, q, func(views []view.MessageView) {
		select {
		case send <- streamEnvelope{Type: "messages", Messages: views}:
		default:
			// Slow consumer; drop this snapshot, the next one supersedes it.
		}
	})
	if err != nil {
		_ = conn.WriteJSON(common.ErrorBody{Error: err.Error()})
		conn.Close()
		return
	}

	go writePump(conn, send, sub)
	readPump(conn, sub)
}

// StreamConversations pushes the caller's merged conversation list on
// every change.
func (h *ChatHandler) StreamConversations(w http.ResponseWriter, r *http.Request) {
	userID := common.UserIDFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	send := make(chan streamEnvelope, sendBuffer)
	sub, err := h.chats.SubscribeConversations(r.Context(), userID, func(views []view.ConversationView) {
		select {
		case send <- streamEnvelope{Type: "conversations", Conversations: views}:
		default:
		}
	})
	if err != nil {
		_ = conn.WriteJSON(common.ErrorBody{Error: err.Error()})
		conn.Close()
		return
	}

	go writePump(conn, send, sub)
	readPump(conn, sub)
}

// writePump owns all writes on the connection: view snapshots and pings.
// It exits when the subscription closes or a write fails.
func writePump(conn *websocket.Conn, send <-chan streamEnvelope, sub *view.Subscription) {
	ticker := time.NewTicker(pingPeriod)
	done := make(chan struct{})
	sub.OnClose(func() { close(done) })

	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case env := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				sub.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				sub.Close()
				return
			}
		case <-done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// readPump discards client frames; its job is noticing disconnects and
// tearing down the subscription.
func readPump(conn *websocket.Conn, sub *view.Subscription) {
	defer sub.Close()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
