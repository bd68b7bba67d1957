package user

import (
	"strings"
	"time"
)

// User 用户实体（聚合根）
// 设计说明：
// 1. 密码以bcrypt哈希存储，不提供读取明文的方法
// 2. FirstName/LastName在评论列表中展示为评论人姓名
// 3. PhoneNumber可选，格式为0开头的10位数字
type User struct {
	ID          uint
	Email       string
	Password    string // bcrypt哈希值
	FirstName   string
	LastName    string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, firstName, lastName, phone string) *User {
	now := time.Now()
	return &User{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Password:    hashedPassword,
		FirstName:   strings.TrimSpace(firstName),
		LastName:    strings.TrimSpace(lastName),
		PhoneNumber: strings.TrimSpace(phone),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// FullName 姓名
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
