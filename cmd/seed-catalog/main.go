// seed-catalog loads the reference collections (units, classifications) and,
// with --demo, a handful of demo supplies so a fresh console is not empty.
// Existing rows are left alone; the tool is safe to rerun.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-catalog [--demo]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/gsosupply/inventory_backend/config"
	"bitbucket.org/gsosupply/inventory_backend/models"
	"bitbucket.org/gsosupply/inventory_backend/utils"
)

var seedUnits = []models.NewSupplyUnit{
	{Name: "piece", Abbreviation: "pc"},
	{Name: "box", Abbreviation: "bx"},
	{Name: "ream", Abbreviation: "rm"},
	{Name: "bottle", Abbreviation: "btl"},
	{Name: "pack", Abbreviation: "pk"},
	{Name: "roll", Abbreviation: "rl"},
}

var seedClassifications = []string{
	"Consumable",
	"Semi-expendable",
	"Equipment",
}

var demoSupplies = []models.NewSupply{
	{Name: "Bond Paper A4", Unit: "ream", Cluster: models.ClusterOffice, Classification: "Consumable", Quantity: 50},
	{Name: "Ballpoint Pen Black", Unit: "box", Cluster: models.ClusterOffice, Classification: "Consumable", Quantity: 20},
	{Name: "USB Flash Drive 32GB", Unit: "piece", Cluster: models.ClusterICT, Classification: "Semi-expendable", Quantity: 15},
	{Name: "Disinfectant Spray", Unit: "bottle", Cluster: models.ClusterJanitorial, Classification: "Consumable", Quantity: 30},
	{Name: "First Aid Kit", Unit: "pack", Cluster: models.ClusterMedical, Classification: "Semi-expendable", Quantity: 5},
}

func main() {
	demo := flag.Bool("demo", false, "Also create demo supplies")
	flag.Parse()

	ctx := context.Background()
	db := config.ConnectDatabaseWithRetry()
	if err := models.MigrateTables(db); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger()
	store := models.NewStore(db, logger, nil, nil)

	created := 0
	for _, unit := range seedUnits {
		u := unit
		if _, err := store.CreateSupplyUnit(ctx, &u); err != nil {
			if errors.Is(err, utils.ErrorValidation) {
				continue
			}
			fmt.Fprintf(os.Stderr, "seed unit %q: %v\n", unit.Name, err)
			os.Exit(1)
		}
		created++
	}
	for _, name := range seedClassifications {
		input := models.NewClassification{Name: name}
		if _, err := store.CreateClassification(ctx, &input); err != nil {
			if errors.Is(err, utils.ErrorValidation) {
				continue
			}
			fmt.Fprintf(os.Stderr, "seed classification %q: %v\n", name, err)
			os.Exit(1)
		}
		created++
	}
	fmt.Printf("reference collections seeded (%d new rows)\n", created)

	if !*demo {
		return
	}

	for _, input := range demoSupplies {
		in := input
		supply, err := store.CreateSupply(ctx, &in)
		if err != nil {
			if errors.Is(err, utils.ErrorValidation) &&
				strings.Contains(err.Error(), "duplicate") {
				continue
			}
			fmt.Fprintf(os.Stderr, "seed supply %q: %v\n", input.Name, err)
			os.Exit(1)
		}
		fmt.Printf("created %s %q\n", supply.Code, supply.Name)
	}
}
