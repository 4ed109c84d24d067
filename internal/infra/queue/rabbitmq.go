package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"push-channel-sync/internal/domain"
)

// RabbitSyncQueue реализует очередь заданий синхронизации поверх AMQP.
type RabbitSyncQueue struct {
	url        string
	conn       *amqp.Connection
	ch         *amqp.Channel
	queue      string
	deliveries <-chan amqp.Delivery
}

var _ domain.SyncQueue = (*RabbitSyncQueue)(nil)

// NewRabbitSyncQueue подключается к брокеру и объявляет durable-очередь.
func NewRabbitSyncQueue(amqpURL, queue string) (*RabbitSyncQueue, error) {
	if amqpURL == "" {
		return nil, errors.New("amqp url is empty")
	}
	if queue == "" {
		return nil, errors.New("queue name is empty")
	}
	q := &RabbitSyncQueue{url: amqpURL, queue: queue}
	if err := q.dial(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *RabbitSyncQueue) dial() error {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(q.queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}
	q.conn = conn
	q.ch = ch
	q.deliveries = nil
	return nil
}

// ensureConsumer переподключается к брокеру при разрыве соединения и заново
// оформляет подписку, если её ещё нет.
func (q *RabbitSyncQueue) ensureConsumer() error {
	if q.conn.IsClosed() || q.ch.IsClosed() {
		if err := q.dial(); err != nil {
			return err
		}
	}
	if q.deliveries == nil {
		deliveries, err := q.ch.Consume(q.queue, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume: %w", err)
		}
		q.deliveries = deliveries
	}
	return nil
}

// Enqueue публикует задание в очередь.
func (q *RabbitSyncQueue) Enqueue(ctx context.Context, job domain.SyncJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	err = q.ch.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}

// Pop блокирующе читает задание из очереди. Подтверждение ручное: задание
// остаётся в очереди до вызова SyncAckFunc, поэтому падение обработчика не
// теряет его.
func (q *RabbitSyncQueue) Pop(ctx context.Context) (domain.SyncJob, domain.SyncAckFunc, error) {
	if err := q.ensureConsumer(); err != nil {
		return domain.SyncJob{}, nil, err
	}

	select {
	case <-ctx.Done():
		return domain.SyncJob{}, nil, ctx.Err()
	case msg, ok := <-q.deliveries:
		if !ok {
			// Брокер закрыл канал доставки; сбрасываем подписку, чтобы
			// следующий Pop оформил её заново.
			q.deliveries = nil
			return domain.SyncJob{}, nil, errors.New("amqp queue: delivery channel closed")
		}
		var job domain.SyncJob
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			_ = msg.Nack(false, false)
			return domain.SyncJob{}, nil, fmt.Errorf("decode job: %w", err)
		}
		ack := func(success bool) error {
			if success {
				return msg.Ack(false)
			}
			// Одна попытка на задание: неуспех не возвращает его в очередь.
			return msg.Nack(false, false)
		}
		return job, ack, nil
	}
}

// Close закрывает канал и соединение с брокером.
func (q *RabbitSyncQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}
