package service

import (
	"errors"
	"fmt"
	"time"

	"messagely/internal/models"

	"gorm.io/gorm"
)

// UserService 封装用户目录与收发件箱查询。
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserSummary 是对外输出的用户基本信息，永远不包含密码哈希。
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UserDetail 在基本信息之外带上注册与最近登录时间。
type UserDetail struct {
	UserSummary
	JoinedAt    time.Time `json:"joined_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

func summaryOf(u models.User) UserSummary {
	return UserSummary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// All 返回全部用户的基本信息，按用户名排序。
func (s *UserService) All() ([]UserSummary, error) {
	var users []models.User
	if err := s.db.Select("username", "first_name", "last_name", "phone").Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, summaryOf(u))
	}
	return out, nil
}

// Get 按用户名查询单个用户。
func (s *UserService) Get(username string) (*UserDetail, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &UserDetail{
		UserSummary: summaryOf(user),
		JoinedAt:    user.JoinedAt,
		LastLoginAt: user.LastLoginAt,
	}, nil
}

// SentMessage 是发件箱条目，附带收件人的基本信息。
type SentMessage struct {
	ID     uint        `json:"id"`
	ToUser UserSummary `json:"to_user"`
	Body   string      `json:"body"`
	SentAt time.Time   `json:"sent_at"`
	ReadAt *time.Time  `json:"read_at"`
}

// ReceivedMessage 是收件箱条目，附带发件人的基本信息。
type ReceivedMessage struct {
	ID       uint        `json:"id"`
	FromUser UserSummary `json:"from_user"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
}

// MessagesFrom 返回某用户发出的全部消息。用户名不存在时返回空列表。
func (s *UserService) MessagesFrom(username string) ([]SentMessage, error) {
	var msgs []models.Message
	if err := s.db.Where("from_username = ?", username).Order("id").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list sent messages: %w", err)
	}
	names := make([]string, 0, len(msgs))
	for _, m := range msgs {
		names = append(names, m.ToUsername)
	}
	profiles, err := s.resolveProfiles(names)
	if err != nil {
		return nil, err
	}
	out := make([]SentMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, SentMessage{
			ID:     m.ID,
			ToUser: profiles[m.ToUsername],
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
		})
	}
	return out, nil
}

// MessagesTo 返回发给某用户的全部消息。用户名不存在时返回空列表。
func (s *UserService) MessagesTo(username string) ([]ReceivedMessage, error) {
	var msgs []models.Message
	if err := s.db.Where("to_username = ?", username).Order("id").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list received messages: %w", err)
	}
	names := make([]string, 0, len(msgs))
	for _, m := range msgs {
		names = append(names, m.FromUsername)
	}
	profiles, err := s.resolveProfiles(names)
	if err != nil {
		return nil, err
	}
	out := make([]ReceivedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ReceivedMessage{
			ID:       m.ID,
			FromUser: profiles[m.FromUsername],
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
		})
	}
	return out, nil
}

// resolveProfiles 批量获取一组用户名对应的基本信息。
func (s *UserService) resolveProfiles(names []string) (map[string]UserSummary, error) {
	seen := make(map[string]struct{}, len(names))
	uniq := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		uniq = append(uniq, n)
	}

	profiles := make(map[string]UserSummary, len(uniq))
	if len(uniq) > 0 {
		var users []models.User
		if err := s.db.Select("username", "first_name", "last_name", "phone").Where("username IN ?", uniq).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("resolve profiles: %w", err)
		}
		for _, u := range users {
			profiles[u.Username] = summaryOf(u)
		}
	}
	return profiles, nil
}
