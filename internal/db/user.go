package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户模型
type User struct {
	gorm.Model
	Username string `gorm:"size:150;unique;not null"`
	Email    string `gorm:"size:254"`
	Password string `gorm:"not null"`
	IsStaff  bool   `gorm:"default:false"`
}

// EnsureStaffUser 存在性检查：若用户名与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的管理员账号；
// 已存在的账号会被标记为管理员，密码保持不变。
func EnsureStaffUser(gdb *gorm.DB, username, password string) (*User, error) {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil, errors.New("username and password are required")
	}

	if gdb == nil {
		return nil, errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		user := User{Username: trimmedUser, Password: string(hashed), IsStaff: true}
		if err := gdb.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	if !existing.IsStaff {
		if err := gdb.Model(&existing).Update("is_staff", true).Error; err != nil {
			return nil, err
		}
		existing.IsStaff = true
	}

	return &existing, nil
}
