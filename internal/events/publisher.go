package events

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// JSONPublisher публикует JSON в exchange по routing key
type JSONPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Publisher публикует события о записях в RabbitMQ
type Publisher struct {
	mq  JSONPublisher
	now func() time.Time
}

// NewPublisher создает издателя событий поверх mq
func NewPublisher(mq JSONPublisher) *Publisher {
	return &Publisher{mq: mq, now: time.Now}
}

// AppointmentConfirmed публикует appointment.confirmed
func (p *Publisher) AppointmentConfirmed(ctx context.Context, appt *domain.Appointment) error {
	return p.publish(ctx, RKAppointmentConfirmed, appt)
}

// AppointmentCancelled публикует appointment.cancelled
func (p *Publisher) AppointmentCancelled(ctx context.Context, appt *domain.Appointment) error {
	return p.publish(ctx, RKAppointmentCancelled, appt)
}

func (p *Publisher) publish(ctx context.Context, key string, appt *domain.Appointment) error {
	if err := p.mq.PublishJSON(ctx, key, NewAppointmentEvent(appt, p.now())); err != nil {
		return fmt.Errorf("publish %s for appointment %s: %w", key, appt.ID, err)
	}
	return nil
}

// NoopPublisher используется, когда RabbitMQ выключен в конфигурации
type NoopPublisher struct{}

func (NoopPublisher) AppointmentConfirmed(context.Context, *domain.Appointment) error { return nil }
func (NoopPublisher) AppointmentCancelled(context.Context, *domain.Appointment) error { return nil }
