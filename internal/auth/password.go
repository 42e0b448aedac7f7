package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher 用 bcrypt 做单向加盐哈希，工作因子在构造时注入，
// 便于测试替换为更低的代价。
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: cost}
}

// Hash 生成嵌入随机盐的哈希，同一明文每次调用结果都不同。
func (h PasswordHasher) Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify 比对明文与存储哈希（bcrypt 内部为常数时间比较）。
// 密码不匹配返回 (false, nil)；哈希本身无法解析说明库里数据已损坏，
// 返回非 nil error，调用方按存储故障处理而不是按密码错误处理。
func (h PasswordHasher) Verify(hash, pw string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
