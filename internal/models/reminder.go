package models

import "time"

// Reminder — сообщение о запланированном напоминании, которое публикуется
// в очередь при создании подписки и потребляется воркером отправки писем.
// Доставка наилучшей попыткой: при ошибке публикации создание подписки
// не откатывается.
type Reminder struct {
	ReminderID     string    `json:"reminder_id"`     // Идентификатор напоминания (uuid)
	SubscriptionID int       `json:"subscription_id"` // Подписка, о которой напоминаем
	ServiceName    string    `json:"service_name"`    // Название сервиса
	RenewalDate    time.Time `json:"renewal_date"`    // Дата продления
	Email          string    `json:"email"`           // Адрес получателя
	Username       string    `json:"username"`        // Имя пользователя для текста письма
}
