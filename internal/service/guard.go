package service

import "messagely/internal/models"

// CanView 判断 identity 是否可以查看一条消息：仅发送方和接收方可见。
// 纯判定函数，无任何副作用。
func CanView(identity string, m models.Message) bool {
	return identity == m.FromUsername || identity == m.ToUsername
}

// CanMarkRead 判断 identity 是否可以把消息标记为已读：只有接收方可以，
// 发送方不能把自己发出的消息标记为已读。
func CanMarkRead(identity string, m models.Message) bool {
	return identity == m.ToUsername
}
