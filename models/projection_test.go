package models

import (
	"context"
	"testing"
	"time"
)

func TestSupplyRowsOrderedByCode(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreateSupply(t, store, &NewSupply{Name: "Mouse", Unit: "piece", Cluster: ClusterICT, Quantity: 3})
	mustCreateSupply(t, store, &NewSupply{Name: "Bond Paper", Unit: "ream", Cluster: ClusterOffice, Quantity: 10})

	rows, err := store.SupplyRows(ctx)
	if err != nil {
		t.Fatalf("SupplyRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Code != "ICT-0001" || rows[1].Code != "OFC-0001" {
		t.Fatalf("rows not ordered by code: %s, %s", rows[0].Code, rows[1].Code)
	}
	if rows[1].Quantity != 10 || rows[1].Availability != 10 {
		t.Fatalf("stock fields missing from projection: %+v", rows[1])
	}
}

func TestLedgerRowsRespectDateRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	supply := mustCreateSupply(t, store, &NewSupply{
		Name: "Bond Paper", Unit: "ream", Cluster: ClusterOffice, Quantity: 10,
	})
	if _, err := store.CreateDelivery(ctx, &NewDelivery{
		SupplyCode: supply.Code, Quantity: 5, DeliveredBy: "Santos",
	}); err != nil {
		t.Fatalf("CreateDelivery: %v", err)
	}
	if _, err := store.CreateRelease(ctx, &NewRelease{
		SupplyCode: supply.Code, Quantity: 2, ReceivedBy: "Dela Cruz", Department: "Records",
	}); err != nil {
		t.Fatalf("CreateRelease: %v", err)
	}

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	rows, err := store.DeliveryRows(ctx, &past, &future)
	if err != nil {
		t.Fatalf("DeliveryRows: %v", err)
	}
	if len(rows) != 1 || rows[0].SupplyName != "Bond Paper" {
		t.Fatalf("expected the delivery inside the window, got %+v", rows)
	}

	empty, err := store.DeliveryRows(ctx, &future, nil)
	if err != nil {
		t.Fatalf("DeliveryRows: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no deliveries after the window, got %d", len(empty))
	}

	releases, err := store.ReleaseRows(ctx, nil, &future)
	if err != nil {
		t.Fatalf("ReleaseRows: %v", err)
	}
	if len(releases) != 1 || releases[0].PreviousAvailability != 15 || releases[0].RemainingAvailability != 13 {
		t.Fatalf("release projection wrong: %+v", releases)
	}
}
