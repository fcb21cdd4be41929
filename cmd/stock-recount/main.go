// stock-recount rebuilds each supply's quantity and availability from the
// delivery and release ledgers. Direct quantity edits in the console decouple
// the stock fields from the ledgers; this tool brings them back in line.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/stock-recount [--apply] [--supply-code OFC-0001]
//
// Without --apply the tool prints the drift per supply and changes nothing.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/gsosupply/inventory_backend/config"
	"bitbucket.org/gsosupply/inventory_backend/models"
	"gorm.io/gorm"
)

func main() {
	apply := flag.Bool("apply", false, "Write the recounted figures. Default is a dry run.")
	supplyCode := flag.String("supply-code", "", "Optional: recount a single supply")
	flag.Parse()

	db := config.ConnectDatabaseWithRetry()

	var supplies []*models.Supply
	dbCtx := db.Model(&models.Supply{})
	if strings.TrimSpace(*supplyCode) != "" {
		dbCtx = dbCtx.Where("code = ?", strings.TrimSpace(*supplyCode))
	}
	if err := dbCtx.Order("code").Find(&supplies).Error; err != nil {
		fmt.Fprintf(os.Stderr, "load supplies: %v\n", err)
		os.Exit(1)
	}
	if len(supplies) == 0 {
		fmt.Fprintln(os.Stderr, "no supplies matched")
		os.Exit(2)
	}

	drifted := 0
	for _, supply := range supplies {
		var delivered, released int64
		if err := db.Model(&models.Delivery{}).
			Where("supply_code = ?", supply.Code).
			Select("COALESCE(SUM(quantity), 0)").Scan(&delivered).Error; err != nil {
			fmt.Fprintf(os.Stderr, "sum deliveries for %s: %v\n", supply.Code, err)
			os.Exit(1)
		}
		if err := db.Model(&models.Release{}).
			Where("supply_code = ?", supply.Code).
			Select("COALESCE(SUM(quantity), 0)").Scan(&released).Error; err != nil {
			fmt.Fprintf(os.Stderr, "sum releases for %s: %v\n", supply.Code, err)
			os.Exit(1)
		}

		quantity := int(delivered)
		availability := quantity - int(released)
		if availability < 0 {
			// Over-released ledgers happen after manual quantity edits.
			// Clamp and report; the excess releases stay on record.
			fmt.Printf("%s: ledgers release %d more than delivered, clamping availability to 0\n",
				supply.Code, -availability)
			availability = 0
		}

		if quantity == supply.Quantity && availability == supply.Availability {
			continue
		}
		drifted++

		fmt.Printf("%s %q: quantity %d -> %d, availability %d -> %d\n",
			supply.Code, supply.Name, supply.Quantity, quantity, supply.Availability, availability)

		if !*apply {
			continue
		}
		if err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Model(&models.Supply{}).Where("id = ?", supply.ID).
				Updates(map[string]interface{}{
					"Quantity":     quantity,
					"Availability": availability,
				}).Error
		}); err != nil {
			fmt.Fprintf(os.Stderr, "recount %s failed: %v\n", supply.Code, err)
			os.Exit(1)
		}
	}

	if drifted == 0 {
		fmt.Println("all supplies already match their ledgers")
		return
	}
	if *apply {
		fmt.Printf("recounted %d of %d supplies\n", drifted, len(supplies))
	} else {
		fmt.Printf("%d of %d supplies drifted (dry run, rerun with --apply)\n", drifted, len(supplies))
	}
}
