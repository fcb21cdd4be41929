package reports

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// StockMovementRow is one line of the combined in/out ledger view: every
// delivery and release in the period, newest first. Snapshot columns come
// straight off the ledger rows so history renders as it was recorded.
type StockMovementRow struct {
	CreatedAt  time.Time `json:"created_at"`
	Number     string    `json:"number"`
	Movement   string    `json:"movement"`
	SupplyCode string    `json:"supply_code"`
	SupplyName string    `json:"supply_name"`
	QtyIn      int       `json:"qty_in"`
	QtyOut     int       `json:"qty_out"`
	HandledBy  string    `json:"handled_by"`
}

func GetStockMovementReport(ctx context.Context, db *gorm.DB, fromDate time.Time, toDate time.Time) ([]*StockMovementRow, error) {

	sql := `
SELECT created_at, number, 'delivery' AS movement, supply_code, supply_name,
       quantity AS qty_in, 0 AS qty_out, delivered_by AS handled_by
FROM deliveries
WHERE created_at >= ? AND created_at < ?
UNION ALL
SELECT created_at, number, 'release' AS movement, supply_code, supply_name,
       0 AS qty_in, quantity AS qty_out, received_by AS handled_by
FROM releases
WHERE created_at >= ? AND created_at < ?
ORDER BY created_at DESC, number DESC;
`

	var records []*StockMovementRow
	if err := db.WithContext(ctx).Raw(sql, fromDate, toDate, fromDate, toDate).Scan(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// ClusterOnHandRow aggregates owned and releasable stock per cluster for the
// summary sheet of the on-hand report.
type ClusterOnHandRow struct {
	Cluster      string `json:"cluster"`
	ItemCount    int    `json:"item_count"`
	Quantity     int    `json:"quantity"`
	Availability int    `json:"availability"`
}

func GetClusterOnHandReport(ctx context.Context, db *gorm.DB) ([]*ClusterOnHandRow, error) {

	sql := `
SELECT cluster, COUNT(id) AS item_count,
       SUM(quantity) AS quantity, SUM(availability) AS availability
FROM supplies
GROUP BY cluster
ORDER BY cluster;
`

	var records []*ClusterOnHandRow
	if err := db.WithContext(ctx).Raw(sql).Scan(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
