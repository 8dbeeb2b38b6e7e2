package rabbitmq

// ExchangeReminders — обменник, через который проходят сообщения о напоминаниях.
const ExchangeReminders = "reminders"

// RoutingKeyUpcoming — ключ маршрутизации напоминаний о предстоящем продлении.
const RoutingKeyUpcoming = "upcoming"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetReminderQueues возвращает набор очередей напоминаний.
func GetReminderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "reminders.upcoming", RoutingKey: RoutingKeyUpcoming},
	}
}
