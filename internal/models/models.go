package models

import "time"

// User 的主键就是用户名，注册后不可变更。密码只保存 bcrypt 哈希，
// 任何对外输出都走 service 层的 DTO，绝不直接序列化本结构。
type User struct {
	Username     string    `gorm:"primaryKey;size:64"`
	PasswordHash string    `gorm:"not null"`
	FirstName    string    `gorm:"size:64;not null"`
	LastName     string    `gorm:"size:64;not null"`
	Phone        string    `gorm:"size:32"`
	JoinedAt     time.Time `gorm:"not null"`
	LastLoginAt  time.Time `gorm:"not null"`
}

// Message 是用户之间的点对点私信，read_at 为空表示未读。
type Message struct {
	ID           uint      `gorm:"primaryKey"`
	FromUsername string    `gorm:"index:idx_msg_from;size:64;not null"`
	ToUsername   string    `gorm:"index:idx_msg_to;size:64;not null"`
	Body         string    `gorm:"type:text;not null"`
	SentAt       time.Time `gorm:"not null"`
	ReadAt       *time.Time
}

// Book 以 ISBN 为主键，书目接口是纯 CRUD，可以直接序列化。
type Book struct {
	ISBN      string `gorm:"primaryKey;size:32" json:"isbn"`
	AmazonURL string `gorm:"size:256" json:"amazon_url"`
	Author    string `gorm:"size:128;not null" json:"author"`
	Language  string `gorm:"size:64" json:"language"`
	Pages     int    `json:"pages"`
	Publisher string `gorm:"size:128" json:"publisher"`
	Title     string `gorm:"size:256;not null" json:"title"`
	Year      int    `json:"year"`
}
