package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	"github.com/m04kA/SMC-PetShopService/internal/usecase/credit_points"
)

// DeliverySource источник сообщений с ручным подтверждением
type DeliverySource interface {
	Deliveries(ctx context.Context) (<-chan amqp.Delivery, error)
}

// CreditPointsUseCase начисление баллов за успешный платеж
type CreditPointsUseCase interface {
	Execute(ctx context.Context, req *credit_points.Request) (*credit_points.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// PaymentConsumer обрабатывает payment.succeeded.
// Бизнес-ошибки и битые сообщения отклоняются без повтора (уходят в DLX, если он настроен),
// внутренние ошибки возвращаются в очередь
type PaymentConsumer struct {
	source       DeliverySource
	creditPoints CreditPointsUseCase
	logger       Logger
}

// NewPaymentConsumer создает обработчик платежных событий
func NewPaymentConsumer(source DeliverySource, creditPoints CreditPointsUseCase, logger Logger) *PaymentConsumer {
	return &PaymentConsumer{source: source, creditPoints: creditPoints, logger: logger}
}

// Run читает сообщения до отмены ctx или закрытия канала
func (c *PaymentConsumer) Run(ctx context.Context) error {
	msgs, err := c.source.Deliveries(ctx)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}

	c.logger.Info("PaymentConsumer: started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				c.logger.Warn("PaymentConsumer: delivery channel closed")
				return nil
			}
			c.handle(ctx, d)
		}
	}
}

func (c *PaymentConsumer) handle(ctx context.Context, d amqp.Delivery) {
	if d.RoutingKey != RKPaymentSucceeded {
		c.logger.Warn("PaymentConsumer: skip unknown key=%s", d.RoutingKey)
		_ = d.Ack(false)
		return
	}

	ev, err := Unmarshal[PaymentSucceeded](d.Body)
	if err != nil {
		c.logger.Warn("PaymentConsumer: malformed message: %v", err)
		_ = d.Nack(false, false)
		return
	}

	_, err = c.creditPoints.Execute(ctx, &credit_points.Request{
		AppointmentID: ev.AppointmentID,
		PaymentID:     ev.PaymentID,
	})
	switch {
	case err == nil:
		_ = d.Ack(false)
	case domain.IsBusinessError(err):
		c.logger.Warn("PaymentConsumer: drop payment=%s: %v", ev.PaymentID, err)
		_ = d.Nack(false, false)
	default:
		c.logger.Error("PaymentConsumer: payment=%s: %v -> requeue", ev.PaymentID, err)
		_ = d.Nack(false, true)
	}
}
