package ws

import (
	"sync"
	"sync/atomic"

	"messagely/internal/metrics"
)

// Hub 按用户名管理各自的 Inbox，懒加载且并发安全。
// 新消息持久化之后通过 Deliver 推送给收件人的在线连接，
// 收件人不在线时事件直接丢弃，消息本身已经落库。
type Hub struct {
	mu    sync.RWMutex
	users map[string]*Inbox
}

func NewHub() *Hub { return &Hub{users: make(map[string]*Inbox)} }

// getInbox 若该用户的 Inbox 未初始化则懒加载一个。
func (h *Hub) getInbox(username string) *Inbox {
	h.mu.RLock()
	in := h.users[username]
	h.mu.RUnlock()
	if in != nil {
		return in
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	in = h.users[username]
	if in != nil {
		return in
	}
	in = NewInbox(username)
	h.users[username] = in
	go in.run()
	return in
}

// Deliver 把事件推送给某用户的全部在线连接，没有连接时为空操作。
func (h *Hub) Deliver(username string, payload []byte) {
	h.mu.RLock()
	in := h.users[username]
	h.mu.RUnlock()
	if in == nil {
		return
	}
	in.deliver <- payload
}

// Online 返回某用户当前的在线连接数。
func (h *Hub) Online(username string) int {
	h.mu.RLock()
	in := h.users[username]
	h.mu.RUnlock()
	if in == nil {
		return 0
	}
	return in.Online()
}

// Inbox 是单个用户的连接集合，注册、注销和投递都经由 channel
// 在 run goroutine 内串行处理。
type Inbox struct {
	username   string
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	deliver    chan []byte
	online     int32
}

func NewInbox(username string) *Inbox {
	return &Inbox{
		username:   username,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan []byte, 256),
	}
}

func (in *Inbox) run() {
	for {
		select {
		case c := <-in.register:
			in.clients[c] = true
			atomic.StoreInt32(&in.online, int32(len(in.clients)))
			metrics.WsConnections.Inc()
		case c := <-in.unregister:
			if _, ok := in.clients[c]; ok {
				delete(in.clients, c)
				close(c.send)
				atomic.StoreInt32(&in.online, int32(len(in.clients)))
				metrics.WsConnections.Dec()
			}
		case payload := <-in.deliver:
			for c := range in.clients {
				select {
				case c.send <- payload:
				default:
					// 消费不过来的连接直接踢掉，避免阻塞投递。
					close(c.send)
					delete(in.clients, c)
					atomic.StoreInt32(&in.online, int32(len(in.clients)))
					metrics.WsConnections.Dec()
				}
			}
		}
	}
}

// Online 返回当前在线连接数，供 REST 接口复用。
func (in *Inbox) Online() int { return int(atomic.LoadInt32(&in.online)) }
