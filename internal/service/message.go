package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"messagely/internal/metrics"
	"messagely/internal/models"
	"messagely/internal/ws"

	"gorm.io/gorm"
)

// MessageService 封装私信的创建、查询与已读回执。
// hub 可以为 nil（测试场景），此时跳过在线投递。
type MessageService struct {
	db  *gorm.DB
	hub *ws.Hub
}

func NewMessageService(db *gorm.DB, hub *ws.Hub) *MessageService {
	return &MessageService{db: db, hub: hub}
}

// MessageCreated 是创建成功后返回的数据。
type MessageCreated struct {
	ID           uint      `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

// Create 发送一条私信：校验收件人存在，落库后推送给其在线连接。
func (s *MessageService) Create(from, to, body string) (*MessageCreated, error) {
	var recipient models.User
	if err := s.db.Select("username").Where("username = ?", to).First(&recipient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup recipient: %w", err)
	}
	msg := models.Message{FromUsername: from, ToUsername: to, Body: body, SentAt: time.Now()}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	metrics.MessagesSentTotal.Inc()
	if s.hub != nil {
		if b, err := json.Marshal(ws.MessageEvent{
			Type:         "message",
			ID:           msg.ID,
			FromUsername: msg.FromUsername,
			ToUsername:   msg.ToUsername,
			Body:         msg.Body,
			SentAt:       msg.SentAt,
		}); err == nil {
			s.hub.Deliver(msg.ToUsername, b)
		}
	}
	return &MessageCreated{
		ID:           msg.ID,
		FromUsername: msg.FromUsername,
		ToUsername:   msg.ToUsername,
		Body:         msg.Body,
		SentAt:       msg.SentAt,
	}, nil
}

// Get 按 id 取原始消息记录，供 handler 先做可见性判定。
func (s *MessageService) Get(id uint) (models.Message, error) {
	var msg models.Message
	if err := s.db.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Message{}, ErrMessageNotFound
		}
		return models.Message{}, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// MessageDetail 是对外输出的完整消息，带上双方的基本信息。
type MessageDetail struct {
	ID       uint        `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
	FromUser UserSummary `json:"from_user"`
	ToUser   UserSummary `json:"to_user"`
}

// Detail 把消息记录和双方用户信息拼成对外形态。
func (s *MessageService) Detail(m models.Message) (*MessageDetail, error) {
	var users []models.User
	names := []string{m.FromUsername, m.ToUsername}
	if err := s.db.Select("username", "first_name", "last_name", "phone").Where("username IN ?", names).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("resolve message users: %w", err)
	}
	detail := &MessageDetail{ID: m.ID, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt}
	for _, u := range users {
		if u.Username == m.FromUsername {
			detail.FromUser = summaryOf(u)
		}
		if u.Username == m.ToUsername {
			detail.ToUser = summaryOf(u)
		}
	}
	return detail, nil
}

// ReadReceipt 标记已读后返回的数据。
type ReadReceipt struct {
	ID     uint      `json:"id"`
	ReadAt time.Time `json:"read_at"`
}

// MarkRead 把消息置为已读并通知发件人。调用方必须先用 CanMarkRead
// 确认当前身份就是收件人。
func (s *MessageService) MarkRead(m models.Message) (*ReadReceipt, error) {
	now := time.Now()
	res := s.db.Model(&models.Message{}).Where("id = ?", m.ID).Update("read_at", now)
	if res.Error != nil {
		return nil, fmt.Errorf("mark read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrMessageNotFound
	}
	if s.hub != nil {
		if b, err := json.Marshal(ws.ReadEvent{Type: "read", ID: m.ID, ReadAt: now}); err == nil {
			s.hub.Deliver(m.FromUsername, b)
		}
	}
	return &ReadReceipt{ID: m.ID, ReadAt: now}, nil
}
