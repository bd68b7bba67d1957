package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// DefaultBcryptCost bcrypt计算成本（每+1耗时翻倍）
const DefaultBcryptCost = 12

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^0\d{9}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// RegisterInput 注册参数
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// Service 用户领域服务接口
type Service interface {
	// Register 用户注册
	// 业务规则：
	// - 邮箱格式合法且未被注册
	// - 密码8-20位，同时包含字母和数字
	// - 姓名不超过50个字符；手机号可选，格式为0开头的10位数字
	Register(ctx context.Context, in RegisterInput) (*User, error)

	// Login 邮箱+密码登录
	Login(ctx context.Context, email, password string) (*User, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户领域服务
func NewService(repo Repository) Service {
	return NewServiceWithCost(repo, DefaultBcryptCost)
}

// NewServiceWithCost 指定bcrypt成本（测试中使用bcrypt.MinCost加速）
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	fields := map[string]string{}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		fields["email"] = "邮箱格式不正确"
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(in.FirstName)); n == 0 || n > 50 {
		fields["first_name"] = "名字长度应为1-50个字符"
	}
	if utf8.RuneCountInString(in.LastName) > 50 {
		fields["last_name"] = "姓氏不能超过50个字符"
	}
	if in.PhoneNumber != "" && !phonePattern.MatchString(in.PhoneNumber) {
		fields["phone_number"] = "手机号格式应为0开头的10位数字"
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	if err := validatePasswordStrength(in.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(in.Email, string(hashed), in.FirstName, in.LastName, in.PhoneNumber)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err // Repository已转换为业务错误
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return u, nil
}

// validatePasswordStrength 密码强度：8-20位，同时包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
