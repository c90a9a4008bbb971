// cmd/worker/main.go
package main

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/Uday-0910/RetailReachAI/internal/config"
	"github.com/Uday-0910/RetailReachAI/internal/event"
)

// The worker drains campaign.sent events into the log, giving an audit
// trail of every fan-out independent of the API database.
func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("component", "worker").Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()
	if cfg.AMQPURL == "" {
		logger.Fatal().Msg("AMQP_URL is required for the worker")
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to AMQP broker")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open channel")
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(event.QueueCampaignEvents, true, false, false, false, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to declare queue")
	}

	msgs, err := ch.Consume(event.QueueCampaignEvents, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register consumer")
	}

	logger.Info().Msg("worker running, waiting for campaign events")
	for d := range msgs {
		var evt event.CampaignSent
		if err := json.Unmarshal(d.Body, &evt); err != nil {
			logger.Warn().Err(err).Msg("discarding malformed event")
			d.Ack(false)
			continue
		}

		logger.Info().
			Str("tenant_id", evt.TenantID).
			Str("campaign_id", evt.CampaignID).
			Int("total_sent", evt.TotalSent).
			Int("total_delivered", evt.TotalDelivered).
			Int("total_failed", evt.TotalFailed).
			Time("sent_at", evt.SentAt).
			Msg("campaign sent")
		d.Ack(false)
	}
}
