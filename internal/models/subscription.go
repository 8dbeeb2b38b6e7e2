// Package models содержит доменные структуры подписок и пользователей,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Статусы подписки. Набор открытый: хранилище может содержать и другие
// значения, бизнес-логика трактует их как "не отменена".
const (
	// StatusActive — подписка действует, начальный статус при создании.
	StatusActive = "active"
	// StatusCancelled — подписка отменена, терминальный статус.
	StatusCancelled = "cancelled"
)

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище.
//
// Владелец (UserUID) задаётся при создании из данных аутентификации
// и больше не меняется. Факт отмены хранится только в Status,
// CancelledAt устанавливается ровно один раз — в момент отмены.
type Subscription struct {
	ID          int        `json:"id"`                     // Уникальный идентификатор подписки
	UserUID     string     `json:"user_uid"`               // Идентификатор пользователя-владельца
	ServiceName string     `json:"service_name"`           // Название сервиса подписки
	Price       int        `json:"price"`                  // Цена подписки за месяц
	RenewalDate time.Time  `json:"renewal_date"`           // Дата ближайшего продления
	Status      string     `json:"status"`                 // Статус подписки: active, cancelled и др.
	CancelledAt *time.Time `json:"cancelled_at,omitempty"` // Момент отмены, nil пока подписка не отменена
}

// IsCancelled сообщает, отменена ли подписка. Производный признак:
// единственный источник истины — поле Status.
func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// DummySubscription используется для приёма данных подписки из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Дата приходит строкой, чтобы её можно было валидировать и парсить вручную.
type DummySubscription struct {
	ServiceName string `json:"service_name" validate:"required"`                     // Название сервиса
	Price       int    `json:"price" validate:"required,gt=0"`                       // Цена (>0)
	RenewalDate string `json:"renewal_date" validate:"required,datetime=02-01-2006"` // Дата продления в формате 02-01-2006
}
