package ws

import "time"

// MessageEvent 在消息落库后推送给收件人（并回显给发件人）。
type MessageEvent struct {
	Type         string    `json:"type"`
	ID           uint      `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

// ReadEvent 在消息被标记已读后推送给发件人。
type ReadEvent struct {
	Type   string    `json:"type"`
	ID     uint      `json:"id"`
	ReadAt time.Time `json:"read_at"`
}

// TypingEvent 是不持久化的输入状态信号。
type TypingEvent struct {
	Type         string `json:"type"`
	FromUsername string `json:"from_username"`
	IsTyping     bool   `json:"is_typing"`
}
