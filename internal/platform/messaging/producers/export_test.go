package producers

import "log/slog"

// NewReconciliationEventProducerForTest builds a producer from its unexported
// fields so the external test package can construct one without Kafka.
func NewReconciliationEventProducerForTest(logger *slog.Logger, writer KafkaWriter, topic string) *ReconciliationEventProducer {
	return &ReconciliationEventProducer{logger: logger, writer: writer, topic: topic}
}
