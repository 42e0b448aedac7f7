package service

import (
	"errors"
	"fmt"
	"time"

	"messagely/internal/auth"
	"messagely/internal/models"

	"gorm.io/gorm"
)

// AuthService 负责注册、登录和登录时间戳维护。
// 密码哈希和 token 签发分别委托给注入的 hasher / tokens，
// 本服务是唯一允许写 password_hash 和 last_login_at 的入口。
type AuthService struct {
	db     *gorm.DB
	hasher auth.PasswordHasher
	tokens *auth.TokenService
}

func NewAuthService(db *gorm.DB, hasher auth.PasswordHasher, tokens *auth.TokenService) *AuthService {
	return &AuthService{db: db, hasher: hasher, tokens: tokens}
}

// AuthResult 注册或登录成功后返回的数据。
type AuthResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// Register 注册新用户并直接签发 token（注册即登录）。
// 唯一性靠单条受约束插入保证，不做先查后插，并发重复注册
// 只会有一条成功，另一条拿到 ErrUsernameTaken 且不留半条记录。
// 注意：注册只在插入时写入 last_login_at 初值，不走登录时间戳更新。
func (s *AuthService) Register(username, password, firstName, lastName, phone string) (*AuthResult, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		JoinedAt:     now,
		LastLoginAt:  now,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: summaryOf(user)}, nil
}

// Login 校验用户名密码，成功后更新 last_login_at 并签发 token。
// 用户不存在和密码不符返回同一个 ErrInvalidCredentials。
func (s *AuthService) Login(username, password string) (*AuthResult, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		// 哈希无法解析说明存储数据损坏，不能伪装成密码错误。
		return nil, fmt.Errorf("stored hash unreadable: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if _, err := s.UpdateLoginTimestamp(username); err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: summaryOf(user)}, nil
}

// UpdateLoginTimestamp 把 last_login_at 置为当前时间并返回该时间。
func (s *AuthService) UpdateLoginTimestamp(username string) (time.Time, error) {
	now := time.Now()
	res := s.db.Model(&models.User{}).Where("username = ?", username).Update("last_login_at", now)
	if res.Error != nil {
		return time.Time{}, fmt.Errorf("update login timestamp: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return time.Time{}, ErrUserNotFound
	}
	return now, nil
}
