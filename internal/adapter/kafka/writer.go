package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/impact-atlas/internal/domain"
	"github.com/couchcryptid/impact-atlas/internal/observability"
)

// chunkSize bounds the number of messages per WriteMessages call.
const chunkSize = 1000

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer exports catalog records to a Kafka topic, one GeoJSON feature per
// message.
type Writer struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for topic. metrics may be nil.
func NewWriter(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// PublishCraters writes one message per crater, keyed by crater name.
func (w *Writer) PublishCraters(ctx context.Context, craters []domain.Crater) error {
	exportedAt := domain.Now()
	msgs := make([]kafkago.Message, 0, len(craters))
	for _, c := range craters {
		msg, err := serializeToMessage(c.Name, observability.CatalogCraters, c.Feature(), exportedAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return w.publish(ctx, observability.CatalogCraters, msgs)
}

// PublishMeteorites writes one message per meteorite, keyed by its NASA id
// or, failing that, its name.
func (w *Writer) PublishMeteorites(ctx context.Context, meteorites []domain.Meteorite) error {
	exportedAt := domain.Now()
	msgs := make([]kafkago.Message, 0, len(meteorites))
	for _, m := range meteorites {
		key := m.ID.String()
		if !m.ID.Present() {
			key = m.Name
		}
		msg, err := serializeToMessage(key, observability.CatalogMeteorites, m.Feature(), exportedAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return w.publish(ctx, observability.CatalogMeteorites, msgs)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func (w *Writer) publish(ctx context.Context, catalog string, msgs []kafkago.Message) error {
	for start := 0; start < len(msgs); start += chunkSize {
		chunk := msgs[start:min(start+chunkSize, len(msgs))]
		if err := w.writer.WriteMessages(ctx, chunk...); err != nil {
			return fmt.Errorf("publish %s: %w", catalog, err)
		}
		if w.metrics != nil {
			w.metrics.ExportedRecords.WithLabelValues(catalog).Add(float64(len(chunk)))
		}
	}
	w.logger.Info("catalog exported", "catalog", catalog, "count", len(msgs))
	return nil
}

// serializeToMessage marshals a feature into a Kafka message.
func serializeToMessage(key, catalog string, feature domain.Feature, exportedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(feature)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s feature %q: %w", catalog, key, err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "catalog", Value: []byte(catalog)},
			{Key: "exported_at", Value: []byte(exportedAt.Format(time.RFC3339))},
		},
	}, nil
}
