// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и дату создания.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей системы.
const (
	// RoleAdmin — административная роль, открывает списочные операции.
	RoleAdmin = "admin"
	// RoleUser — обычный пользователь, работает только со своими данными.
	RoleUser = "user"
)

// User представляет зарегистрированного пользователя системы.
// Хэш пароля никогда не сериализуется в ответы — наружу уходит UserInfo.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	CreatedAt    time.Time // Дата создания учётной записи
}

// Info возвращает представление пользователя без учётных данных.
func (u *User) Info() UserInfo {
	return UserInfo{
		UID:       u.UID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// UserInfo — представление пользователя для JSON-ответов,
// без хэша пароля.
type UserInfo struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// DummyUserUpdate используется для приёма данных обновления учётной записи
// из JSON-запроса. Пароль опционален: при наличии он будет захэширован заново.
type DummyUserUpdate struct {
	Email    string `json:"email" validate:"required,email"`       // Электронная почта
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password,omitempty" validate:"omitempty,min=8"` // Новый пароль (опционально)
}
