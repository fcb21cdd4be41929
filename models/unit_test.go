package models

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/gsosupply/inventory_backend/utils"
)

func TestSupplyUnitLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	unit, err := store.CreateSupplyUnit(ctx, &NewSupplyUnit{Name: "ream", Abbreviation: "rm"})
	if err != nil {
		t.Fatalf("CreateSupplyUnit: %v", err)
	}
	if _, err := store.CreateSupplyUnit(ctx, &NewSupplyUnit{Name: "ream"}); !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("duplicate unit name should be rejected, got %v", err)
	}

	// a unit referenced by the catalog cannot be removed
	mustCreateSupply(t, store, &NewSupply{Name: "Bond Paper", Unit: "ream", Cluster: ClusterOffice})
	if _, err := store.DeleteSupplyUnit(ctx, unit.ID); !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("in-use unit should be protected, got %v", err)
	}

	if _, err := store.DeleteSupply(ctx, "OFC-0001"); err != nil {
		t.Fatalf("DeleteSupply: %v", err)
	}
	if _, err := store.DeleteSupplyUnit(ctx, unit.ID); err != nil {
		t.Fatalf("DeleteSupplyUnit after last reference: %v", err)
	}

	units, err := store.ListSupplyUnits(ctx)
	if err != nil {
		t.Fatalf("ListSupplyUnits: %v", err)
	}
	if len(units) != 0 {
		t.Fatalf("expected empty list, got %d", len(units))
	}
}

func TestClassificationLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateClassification(ctx, &NewClassification{Name: "Consumable"})
	if err != nil {
		t.Fatalf("CreateClassification: %v", err)
	}
	if _, err := store.CreateClassification(ctx, &NewClassification{Name: "Consumable"}); !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("duplicate classification should be rejected, got %v", err)
	}

	if _, err := store.DeleteClassification(ctx, created.ID); err != nil {
		t.Fatalf("DeleteClassification: %v", err)
	}
	if _, err := store.DeleteClassification(ctx, created.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("second delete should be NotFound, got %v", err)
	}
}
