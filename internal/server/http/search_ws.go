package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const wsIdlePingInterval = 30 * time.Second

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// searchPayload 每完成一轮迭代推一条
type searchPayload struct {
	GameID    string  `json:"game_id"`
	Depth     int     `json:"depth"`
	Score     int     `json:"score"`
	Move      MoveDTO `json:"move"`
	Nodes     int64   `json:"nodes"`
	ElapsedMs int64   `json:"elapsed_ms"`
}

type searchClient struct {
	conn *websocket.Conn
	send chan []byte
}

// SearchHub 把搜索进度广播给所有 /ws/search 连接
type SearchHub struct {
	mu        sync.Mutex
	clients   map[*searchClient]struct{}
	broadcast chan searchPayload
}

func NewSearchHub() *SearchHub {
	return &SearchHub{
		clients:   make(map[*searchClient]struct{}),
		broadcast: make(chan searchPayload, 32),
	}
}

func (h *SearchHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "search", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *SearchHub) Register(c *searchClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *SearchHub) Unregister(c *searchClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Publish 不阻塞搜索：队列满了就丢
func (h *SearchHub) Publish(payload searchPayload) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *SearchHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *searchClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

func serveSearchWS(hub *SearchHub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &searchClient{conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)
	client.sendJSON(wsMessage{Type: "hello"})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}

// 空闲超过 wsIdlePingInterval 就发一条 ping，防止代理断开
func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
