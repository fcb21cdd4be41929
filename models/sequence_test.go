package models

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestNextLedgerNumberStartsAtOne(t *testing.T) {
	store := newTestStore(t)

	number, err := nextDeliveryNumber(store.db)
	if err != nil {
		t.Fatalf("nextDeliveryNumber: %v", err)
	}
	if number != "DLV-0001" {
		t.Fatalf("expected DLV-0001, got %s", number)
	}

	number, err = nextReleaseNumber(store.db)
	if err != nil {
		t.Fatalf("nextReleaseNumber: %v", err)
	}
	if number != "RLS-00001" {
		t.Fatalf("expected RLS-00001, got %s", number)
	}
}

func TestNextLedgerNumberNeverReusesGaps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	supply := mustCreateSupply(t, store, &NewSupply{
		Name: "Bond Paper A4", Unit: "ream", Cluster: ClusterOffice,
	})

	var numbers []string
	for i := 0; i < 3; i++ {
		d, err := store.CreateDelivery(ctx, &NewDelivery{
			SupplyCode: supply.Code, Quantity: 1, DeliveredBy: "Santos",
		})
		if err != nil {
			t.Fatalf("CreateDelivery: %v", err)
		}
		numbers = append(numbers, d.Number)
	}
	if numbers[2] != "DLV-0003" {
		t.Fatalf("expected DLV-0003, got %s", numbers[2])
	}

	// delete the middle entry; its number must stay burned
	if _, err := store.DeleteDelivery(ctx, numbers[1]); err != nil {
		t.Fatalf("DeleteDelivery: %v", err)
	}
	d, err := store.CreateDelivery(ctx, &NewDelivery{
		SupplyCode: supply.Code, Quantity: 1, DeliveredBy: "Santos",
	})
	if err != nil {
		t.Fatalf("CreateDelivery: %v", err)
	}
	if d.Number != "DLV-0004" {
		t.Fatalf("ledger numbers are last-plus-one, expected DLV-0004, got %s", d.Number)
	}
}

func TestNextLedgerNumberSurvivesPadOverflow(t *testing.T) {
	store := newTestStore(t)

	// a legacy row that outgrew the four-digit pad
	seed := Delivery{
		Number: "DLV-10000", SupplyCode: "OFC-0001", SupplyName: "X", Quantity: 1,
	}
	if err := store.db.Create(&seed).Error; err != nil {
		t.Fatalf("seed delivery: %v", err)
	}

	number, err := nextDeliveryNumber(store.db)
	if err != nil {
		t.Fatalf("nextDeliveryNumber: %v", err)
	}
	// a plain string sort would pick DLV-9999's neighborhood instead
	if number != "DLV-10001" {
		t.Fatalf("expected DLV-10001, got %s", number)
	}
}

func TestNextSupplyCodeSkipsMalformedCodes(t *testing.T) {
	store := newTestStore(t)

	// hand-entered legacy code without a numeric suffix
	seed := Supply{Code: "OFC-LEGACY", Name: "Old Stock", Unit: "piece", Cluster: ClusterOffice}
	if err := store.db.Create(&seed).Error; err != nil {
		t.Fatalf("seed supply: %v", err)
	}

	code, err := nextSupplyCode(store.db, ClusterOffice)
	if err != nil {
		t.Fatalf("nextSupplyCode: %v", err)
	}
	if code != "OFC-0001" {
		t.Fatalf("expected OFC-0001, got %s", code)
	}
}

func TestDuplicateNumberRejectedByUniqueIndex(t *testing.T) {
	store := newTestStore(t)

	first := Delivery{Number: "DLV-0001", SupplyCode: "OFC-0001", SupplyName: "X", Quantity: 1}
	if err := store.db.Create(&first).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	dup := Delivery{Number: "DLV-0001", SupplyCode: "OFC-0001", SupplyName: "X", Quantity: 1}
	err := store.db.Create(&dup).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}
