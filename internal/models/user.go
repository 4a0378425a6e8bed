// Package models содержит доменные структуры приложения: пользователей,
// результаты тестов и вопросы каталога. Структуры используются
// в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string     // Уникальный идентификатор пользователя
	Name         string     // Отображаемое имя
	Email        string     // Электронная почта (уникальная)
	PasswordHash string     // Хэш пароля пользователя
	DOB          string     // Дата рождения в виде строки, как прислал клиент
	ResetCode    *string    // Активный код восстановления пароля, nil если не выдан
	ResetExpires *time.Time // Срок действия кода восстановления
	Role         string     // Роль пользователя, admin или user
}

// PublicProfile возвращает проекцию пользователя для ответов API.
// Хэш пароля и поля восстановления наружу не отдаются.
func (u *User) PublicProfile() PublicUser {
	return PublicUser{
		Name:  u.Name,
		Email: u.Email,
		DOB:   u.DOB,
	}
}

// PublicUser публичная часть учётной записи, безопасная для выдачи клиенту.
type PublicUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	DOB   string `json:"dob"`
}
