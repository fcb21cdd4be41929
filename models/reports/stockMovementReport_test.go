package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/models"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newReportStore(t *testing.T) *models.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.MigrateTables(db); err != nil {
		t.Fatalf("MigrateTables: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	return models.NewStore(db, log, nil, models.NewChangeFeed())
}

func seedLedgers(t *testing.T, store *models.Store) *models.Supply {
	t.Helper()
	ctx := context.Background()

	supply, err := store.CreateSupply(ctx, &models.NewSupply{
		Name: "Bond Paper A4", Unit: "ream", Cluster: models.ClusterOffice, Quantity: 10,
	})
	if err != nil {
		t.Fatalf("CreateSupply: %v", err)
	}
	if _, err := store.CreateDelivery(ctx, &models.NewDelivery{
		SupplyCode: supply.Code, Quantity: 5, DeliveredBy: "Santos",
	}); err != nil {
		t.Fatalf("CreateDelivery: %v", err)
	}
	if _, err := store.CreateRelease(ctx, &models.NewRelease{
		SupplyCode: supply.Code, Quantity: 2, ReceivedBy: "Dela Cruz", Department: "Records",
	}); err != nil {
		t.Fatalf("CreateRelease: %v", err)
	}
	return supply
}

func TestStockMovementReportCombinesLedgers(t *testing.T) {
	store := newReportStore(t)
	seedLedgers(t, store)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	rows, err := GetStockMovementReport(context.Background(), store.DB(), from, to)
	if err != nil {
		t.Fatalf("GetStockMovementReport: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(rows))
	}

	var in, out int
	for _, row := range rows {
		switch row.Movement {
		case "delivery":
			in += row.QtyIn
			if row.QtyOut != 0 || row.HandledBy != "Santos" {
				t.Fatalf("bad delivery row: %+v", row)
			}
		case "release":
			out += row.QtyOut
			if row.QtyIn != 0 || row.HandledBy != "Dela Cruz" {
				t.Fatalf("bad release row: %+v", row)
			}
		default:
			t.Fatalf("unknown movement %q", row.Movement)
		}
	}
	if in != 5 || out != 2 {
		t.Fatalf("expected in=5 out=2, got in=%d out=%d", in, out)
	}

	// an empty window returns no rows
	empty, err := GetStockMovementReport(context.Background(), store.DB(),
		from.Add(-48*time.Hour), from.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("GetStockMovementReport: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no movements, got %d", len(empty))
	}
}

func TestClusterOnHandReportAggregates(t *testing.T) {
	store := newReportStore(t)
	ctx := context.Background()

	for _, input := range []models.NewSupply{
		{Name: "Bond Paper", Unit: "ream", Cluster: models.ClusterOffice, Quantity: 10},
		{Name: "Stapler", Unit: "piece", Cluster: models.ClusterOffice, Quantity: 4},
		{Name: "Mouse", Unit: "piece", Cluster: models.ClusterICT, Quantity: 6},
	} {
		in := input
		if _, err := store.CreateSupply(ctx, &in); err != nil {
			t.Fatalf("CreateSupply %q: %v", input.Name, err)
		}
	}

	rows, err := GetClusterOnHandReport(ctx, store.DB())
	if err != nil {
		t.Fatalf("GetClusterOnHandReport: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(rows))
	}
	if rows[0].Cluster != "ICT" || rows[0].ItemCount != 1 || rows[0].Quantity != 6 {
		t.Fatalf("bad ICT row: %+v", rows[0])
	}
	if rows[1].Cluster != "OFC" || rows[1].ItemCount != 2 || rows[1].Quantity != 14 || rows[1].Availability != 14 {
		t.Fatalf("bad OFC row: %+v", rows[1])
	}
}

func TestExportSuppliesExcelRoundTrip(t *testing.T) {
	store := newReportStore(t)
	seedLedgers(t, store)

	rows, err := store.SupplyRows(context.Background())
	if err != nil {
		t.Fatalf("SupplyRows: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportSuppliesExcel(&buf, rows); err != nil {
		t.Fatalf("ExportSuppliesExcel: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	code, err := f.GetCellValue(sheetName, "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if code != "OFC-0001" {
		t.Fatalf("expected OFC-0001 in A2, got %q", code)
	}
	qty, err := f.GetCellValue(sheetName, "F2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if qty != "15" {
		t.Fatalf("expected quantity 15 in F2, got %q", qty)
	}
}
