package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type capturingProducer struct {
	topic string
	key   string
	value []byte
	err   error
}

func (p *capturingProducer) Publish(_ context.Context, topic, key string, value []byte) error {
	p.topic = topic
	p.key = key
	p.value = value
	return p.err
}

func TestDispatcher_SendEmail(t *testing.T) {
	producer := &capturingProducer{}
	d := NewDispatcher(producer, "notifications", zap.NewNop())
	sentAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return sentAt }

	err := d.SendEmail(context.Background(), "somchai@example.com", "otp_login", map[string]string{"code": "123456"})
	if err != nil {
		t.Fatalf("SendEmail() error = %v", err)
	}

	if producer.topic != "notifications" {
		t.Errorf("topic = %q, want notifications", producer.topic)
	}

	var job Job
	if err := json.Unmarshal(producer.value, &job); err != nil {
		t.Fatalf("published value is not a job: %v", err)
	}
	if job.Channel != ChannelEmail {
		t.Errorf("Channel = %v, want email", job.Channel)
	}
	if job.Recipient != "somchai@example.com" {
		t.Errorf("Recipient = %v", job.Recipient)
	}
	if job.Template != "otp_login" {
		t.Errorf("Template = %v", job.Template)
	}
	if job.Params["code"] != "123456" {
		t.Errorf("Params = %v", job.Params)
	}
	if job.ID == "" {
		t.Error("job ID is empty")
	}
	if producer.key != job.ID {
		t.Errorf("kafka key = %q, want job id %q", producer.key, job.ID)
	}
	if !job.CreatedAt.Equal(sentAt) {
		t.Errorf("CreatedAt = %v, want %v", job.CreatedAt, sentAt)
	}
}

func TestDispatcher_SendSMS(t *testing.T) {
	producer := &capturingProducer{}
	d := NewDispatcher(producer, "notifications", zap.NewNop())

	if err := d.SendSMS(context.Background(), "+66812345678", "otp_login", nil); err != nil {
		t.Fatalf("SendSMS() error = %v", err)
	}

	var job Job
	if err := json.Unmarshal(producer.value, &job); err != nil {
		t.Fatalf("published value is not a job: %v", err)
	}
	if job.Channel != ChannelSMS {
		t.Errorf("Channel = %v, want sms", job.Channel)
	}
}

func TestDispatcher_PublishError(t *testing.T) {
	wantErr := errors.New("broker down")
	d := NewDispatcher(&capturingProducer{err: wantErr}, "notifications", zap.NewNop())

	if err := d.SendEmail(context.Background(), "a@b.com", "otp_login", nil); !errors.Is(err, wantErr) {
		t.Errorf("SendEmail() error = %v, want %v", err, wantErr)
	}
}
