package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

type acknowledgerRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *acknowledgerRecorder) Ack(_ uint64, _ bool) error {
	a.acked = true
	return nil
}

func (a *acknowledgerRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *acknowledgerRecorder) Reject(_ uint64, _ bool) error {
	return nil
}

func TestProcessDelivery(t *testing.T) {
	tests := []struct {
		name        string
		body        []byte
		handler     func([]byte) error
		wantAck     bool
		wantNack    bool
		wantRequeue bool
	}{
		{
			name:    "успешная обработка подтверждает сообщение",
			body:    []byte(`{"service_name":"Netflix"}`),
			handler: func([]byte) error { return nil },
			wantAck: true,
		},
		{
			name: "ошибка обработчика отбрасывает сообщение без возврата в очередь",
			body: []byte(`{"service_name":"Netflix"}`),
			handler: func([]byte) error {
				return errors.New("smtp connect failed")
			},
			wantNack:    true,
			wantRequeue: false,
		},
		{
			name: "нечитаемое сообщение не возвращается в очередь",
			body: []byte("not-json"),
			handler: func(body []byte) error {
				var msg map[string]any
				if err := json.Unmarshal(body, &msg); err != nil {
					return err
				}
				return nil
			},
			wantNack:    true,
			wantRequeue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &acknowledgerRecorder{}
			delivery := amqp.Delivery{
				Acknowledger: rec,
				Body:         tt.body,
			}

			processDelivery(delivery, tt.handler)

			assert.Equal(t, tt.wantAck, rec.acked)
			assert.Equal(t, tt.wantNack, rec.nacked)
			if tt.wantNack {
				assert.Equal(t, tt.wantRequeue, rec.requeue)
			}
		})
	}
}
