package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"smartretail/internal/domain/product"
	"smartretail/internal/services/pricing"
	"smartretail/pkg/clickhouse"
	"smartretail/pkg/errors"
	"smartretail/pkg/logger"
)

// Compile-time check
var _ pricing.Recorder = (*PredictionLog)(nil)

// LoggedPrediction is one row of the prediction analytics log
type LoggedPrediction struct {
	Timestamp       time.Time `ch:"timestamp"`
	ProductName     string    `ch:"product_name"`
	Brand           string    `ch:"brand"`
	Gender          string    `ch:"gender"`
	Category        string    `ch:"category"`
	RatingCount     int32     `ch:"rating_count"`
	DiscountPercent float64   `ch:"discount_percent"`
	ProductType     string    `ch:"product_type"`
	PredictedPrice  float64   `ch:"predicted_price"`
	ModelType       string    `ch:"model_type"`
	Confidence      string    `ch:"confidence"`
}

// PredictionLog implements pricing.Recorder by batching prediction rows
// into the predictions table
type PredictionLog struct {
	conn   driver.Conn
	writer *clickhouse.BatchWriter
	log    *logger.Logger
}

// NewPredictionLog creates a new prediction analytics log
func NewPredictionLog(conn driver.Conn) *PredictionLog {
	pl := &PredictionLog{
		conn: conn,
		log:  logger.Get().With("component", "prediction_log"),
	}

	pl.writer = clickhouse.NewBatchWriter(clickhouse.BatchWriterConfig{
		FlushFunc: pl.flush,
		TableName: "predictions",
	})

	return pl
}

// Start begins the background flush loop
func (pl *PredictionLog) Start(ctx context.Context) {
	pl.writer.Start(ctx)
}

// Stop flushes remaining rows and stops the writer
func (pl *PredictionLog) Stop(ctx context.Context) error {
	return pl.writer.Stop(ctx)
}

// Record buffers one prediction row. Failures are logged, never propagated.
func (pl *PredictionLog) Record(ctx context.Context, desc *product.Descriptor, pred *pricing.Prediction) {
	row := LoggedPrediction{
		Timestamp:       time.Now().UTC(),
		ProductName:     desc.ProductName,
		Brand:           desc.Brand,
		Gender:          string(desc.Gender),
		Category:        desc.Category,
		RatingCount:     int32(desc.RatingCount),
		DiscountPercent: desc.DiscountPercent,
		ProductType:     string(pred.ProductType),
		PredictedPrice:  pred.Price,
		ModelType:       string(pred.ModelType),
		Confidence:      string(pred.Confidence),
	}

	if err := pl.writer.Add(ctx, row); err != nil {
		pl.log.Warnw("prediction log write failed", "error", err)
	}
}

func (pl *PredictionLog) flush(ctx context.Context, items []interface{}) error {
	batch, err := pl.conn.PrepareBatch(ctx, `
		INSERT INTO predictions (
			timestamp, product_name, brand, gender, category,
			rating_count, discount_percent,
			product_type, predicted_price, model_type, confidence
		)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare batch")
	}

	for _, item := range items {
		row, ok := item.(LoggedPrediction)
		if !ok {
			continue
		}
		err := batch.Append(
			row.Timestamp, row.ProductName, row.Brand, row.Gender, row.Category,
			row.RatingCount, row.DiscountPercent,
			row.ProductType, row.PredictedPrice, row.ModelType, row.Confidence,
		)
		if err != nil {
			return errors.Wrap(err, "failed to append row")
		}
	}

	return batch.Send()
}
