package event

import (
	"encoding/json"
	"time"

	"github.com/streadway/amqp"
)

// QueueCampaignEvents is the durable queue fed by the server after each
// successful fan-out and drained by cmd/worker.
const QueueCampaignEvents = "campaign_events"

// CampaignSent is published once per completed fan-out.
type CampaignSent struct {
	TenantID       string    `json:"tenant_id"`
	CampaignID     string    `json:"campaign_id"`
	TotalSent      int       `json:"total_sent"`
	TotalDelivered int       `json:"total_delivered"`
	TotalFailed    int       `json:"total_failed"`
	SentAt         time.Time `json:"sent_at"`
}

// Publisher pushes events to the broker. Publishing is best-effort:
// callers log failures but never fail the triggering operation.
type Publisher interface {
	Publish(queue string, payload any) error
	Close() error
}

type AMQPPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(QueueCampaignEvents, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) Publish(queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.ch.Publish("", queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *AMQPPublisher) Close() error {
	p.ch.Close()
	return p.conn.Close()
}

// NopPublisher keeps the engine runnable without a broker.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }
func (NopPublisher) Close() error              { return nil }
