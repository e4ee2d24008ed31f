package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/youvshr/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 150
	minPasswordLength = 8
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9@.+_-]+$`)

// RegisterInput 是注册表单提交的字段，Email 可为空
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// UserService 负责账号注册与登录校验
type UserService struct {
	db *gorm.DB
}

// NewUserService 创建账号服务
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Get 根据 ID 获取用户
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Register 校验表单并创建账号，密码以 bcrypt 哈希保存
func (s *UserService) Register(input RegisterInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	verr := &ValidationError{}
	switch {
	case username == "":
		verr.add("username", "This field is required.")
	case utf8.RuneCountInString(username) < minUsernameLength || utf8.RuneCountInString(username) > maxUsernameLength:
		verr.add("username", fmt.Sprintf("Username must be between %d and %d characters.", minUsernameLength, maxUsernameLength))
	case !usernamePattern.MatchString(username):
		verr.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if email != "" && !govalidator.IsEmail(email) {
		verr.add("email", "Enter a valid email address.")
	}
	if input.Password == "" {
		verr.add("password1", "This field is required.")
	} else if utf8.RuneCountInString(input.Password) < minPasswordLength {
		verr.add("password1", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if input.Password != input.PasswordConfirm {
		verr.add("password2", "The two password fields didn't match.")
	}
	if err := verr.err(); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&db.User{}).Where("LOWER(username) = ?", strings.ToLower(username)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := db.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate 校验用户名与密码，失败时统一返回 ErrInvalidCredentials
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
