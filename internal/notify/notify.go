// Package notify publishes outbound notification jobs. Actual delivery
// (SMTP, SMS gateway) is owned by a downstream consumer; this package
// only encodes and enqueues.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Channel selects the delivery transport for a job.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Job is the wire format published to the notifications topic.
type Job struct {
	ID        string            `json:"id"`
	Channel   Channel           `json:"channel"`
	Recipient string            `json:"recipient"`
	Template  string            `json:"template"`
	Params    map[string]string `json:"params,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Notifier is the boundary services use to dispatch messages.
type Notifier interface {
	SendEmail(ctx context.Context, recipient, template string, params map[string]string) error
	SendSMS(ctx context.Context, recipient, template string, params map[string]string) error
}

// Producer is the minimal kafka surface the dispatcher needs.
type Producer interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

// Dispatcher publishes notification jobs to kafka.
type Dispatcher struct {
	producer Producer
	topic    string
	log      *zap.Logger
	now      func() time.Time
}

// NewDispatcher creates a dispatcher publishing to the given topic.
func NewDispatcher(producer Producer, topic string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		producer: producer,
		topic:    topic,
		log:      log,
		now:      time.Now,
	}
}

func (d *Dispatcher) publish(ctx context.Context, channel Channel, recipient, template string, params map[string]string) error {
	job := Job{
		ID:        uuid.NewString(),
		Channel:   channel,
		Recipient: recipient,
		Template:  template,
		Params:    params,
		CreatedAt: d.now(),
	}

	value, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := d.producer.Publish(ctx, d.topic, job.ID, value); err != nil {
		d.log.Error("notification publish failed",
			zap.String("channel", string(channel)),
			zap.String("template", template),
			zap.Error(err))
		return err
	}

	d.log.Debug("notification published",
		zap.String("id", job.ID),
		zap.String("channel", string(channel)),
		zap.String("template", template))
	return nil
}

// SendEmail enqueues an email job.
func (d *Dispatcher) SendEmail(ctx context.Context, recipient, template string, params map[string]string) error {
	return d.publish(ctx, ChannelEmail, recipient, template, params)
}

// SendSMS enqueues an SMS job.
func (d *Dispatcher) SendSMS(ctx context.Context, recipient, template string, params map[string]string) error {
	return d.publish(ctx, ChannelSMS, recipient, template, params)
}
