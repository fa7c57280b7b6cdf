package kafka

// Topic definitions for Kafka event streaming
const (
	// Pricing events
	TopicPricePredicted = "pricing.predictions"

	// Catalog events
	TopicCatalogIndexed = "catalog.indexed"
)
