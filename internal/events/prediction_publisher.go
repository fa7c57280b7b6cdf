package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"smartretail/internal/adapters/kafka"
	"smartretail/internal/domain/product"
	"smartretail/internal/services/pricing"
	"smartretail/pkg/logger"
)

// PredictionEvent is the payload published for every successful prediction
type PredictionEvent struct {
	ID          string    `json:"id"`
	ProductName string    `json:"product_name"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	ProductType string    `json:"product_type,omitempty"`
	Price       float64   `json:"predicted_price"`
	ModelType   string    `json:"model_type"`
	Confidence  string    `json:"confidence"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PredictionPublisher implements pricing.Recorder by publishing prediction
// events to Kafka. Publish failures are logged, never propagated.
type PredictionPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// NewPredictionPublisher creates a new prediction event publisher
func NewPredictionPublisher(producer *kafka.Producer) *PredictionPublisher {
	return &PredictionPublisher{
		producer: producer,
		log:      logger.Get().With("component", "prediction_publisher"),
	}
}

// Record publishes a prediction event keyed by brand
func (p *PredictionPublisher) Record(ctx context.Context, desc *product.Descriptor, pred *pricing.Prediction) {
	event := PredictionEvent{
		ID:          uuid.New().String(),
		ProductName: desc.ProductName,
		Brand:       desc.Brand,
		Category:    desc.Category,
		ProductType: string(pred.ProductType),
		Price:       pred.Price,
		ModelType:   string(pred.ModelType),
		Confidence:  string(pred.Confidence),
		OccurredAt:  time.Now().UTC(),
	}

	if err := p.producer.Publish(ctx, kafka.TopicPricePredicted, desc.Brand, event); err != nil {
		p.log.Warnw("prediction event publish failed", "brand", desc.Brand, "error", err)
	}
}
