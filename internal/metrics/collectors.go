package metrics

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"smartretail/pkg/logger"
)

// CatalogCollector exports catalog-level gauges scraped on demand from
// Postgres
type CatalogCollector struct {
	log *logger.Logger
	db  *sqlx.DB

	catalogItems  *prometheus.Desc
	indexedItems  *prometheus.Desc
}

// NewCatalogCollector creates a collector over the catalog database
func NewCatalogCollector(log *logger.Logger, db *sqlx.DB) *CatalogCollector {
	return &CatalogCollector{
		log: log,
		db:  db,

		catalogItems: prometheus.NewDesc(
			"smartretail_catalog_items",
			"Total number of catalog items",
			nil, nil,
		),
		indexedItems: prometheus.NewDesc(
			"smartretail_catalog_items_indexed",
			"Catalog items with a stored embedding",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CatalogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.catalogItems
	ch <- c.indexedItems
}

// Collect implements prometheus.Collector
func (c *CatalogCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var total, indexed float64
	if err := c.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM catalog_items"); err != nil {
		c.log.Warnf("Catalog metrics query failed: %v", err)
		return
	}
	if err := c.db.GetContext(ctx, &indexed, "SELECT COUNT(*) FROM catalog_items WHERE embedding IS NOT NULL"); err != nil {
		c.log.Warnf("Catalog metrics query failed: %v", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.catalogItems, prometheus.GaugeValue, total)
	ch <- prometheus.MustNewConstMetric(c.indexedItems, prometheus.GaugeValue, indexed)
}

// Register registers the collector with the default registry
func (c *CatalogCollector) Register() error {
	return prometheus.Register(c)
}
