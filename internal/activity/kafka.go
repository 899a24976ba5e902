package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes activities as JSON, keyed by event id so that one
// event's activities stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, a Activity) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(a.EventID), 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(a.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
}

// Consume reads activities until ctx is cancelled and hands each to handle.
// Undecodable messages are committed and skipped; handler errors are logged
// and the message is committed so one bad activity cannot stall the group.
func Consume(ctx context.Context, reader MessageReader, handle HandlerFunc) error {
	logger := log.With().Str("component", "activity-consumer").Logger()
	logger.Info().Msg("activity consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				logger.Info().Msg("activity consumer stopped")
				return nil
			}
			return fmt.Errorf("fetch activity: %w", err)
		}

		var a Activity
		if err := json.Unmarshal(msg.Value, &a); err != nil {
			logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("skipping malformed activity")
		} else if err := handle(ctx, a); err != nil {
			logger.Error().Err(err).Str("activity", string(a.Type)).Msg("activity handler failed")
		}

		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("commit failed")
		}
	}
}

// ConsumeWithRetry keeps Consume running until ctx is done. Fetch failures
// restart it after a delay that doubles from minDelay up to maxDelay; a run
// that lasted longer than maxDelay resets the delay.
func ConsumeWithRetry(ctx context.Context, reader MessageReader, handle HandlerFunc, minDelay, maxDelay time.Duration) {
	logger := log.With().Str("component", "activity-consumer").Logger()
	delay := minDelay

	for {
		started := time.Now()
		err := Consume(ctx, reader, handle)
		if err == nil || ctx.Err() != nil {
			return
		}
		if time.Since(started) > maxDelay {
			delay = minDelay
		}
		logger.Error().Err(err).Dur("retry_in", delay).Msg("activity consumer failed")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}
