package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nicheshunter/nicheshunter/adapters/idgen"
	"github.com/nicheshunter/nicheshunter/adapters/sqlite"
	"github.com/nicheshunter/nicheshunter/domain/catalog"
	"github.com/nicheshunter/nicheshunter/ports"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the niche catalog",
	Long: `Manage the Niches Hunter catalog.

Examples:
  nicheshunter catalog list
  nicheshunter catalog import niches.json
  nicheshunter catalog seed`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog niches",
	RunE:  runCatalogList,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import niches from a JSON file",
	Long: `Import niches from a JSON array.

Each entry uses the niche wire format. Missing IDs and display codes are
assigned on import; entries whose display code already exists update the
stored niche in place (the display code itself never changes).`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a small sample catalog",
	RunE:  runCatalogSeed,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogSeedCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewCatalogStore(db)
	niches, err := store.List(context.Background())
	if err != nil {
		return fmt.Errorf("list niches: %w", err)
	}

	if len(niches) == 0 {
		fmt.Println("No niches found.")
		fmt.Println()
		fmt.Println("Import some with: nicheshunter catalog import niches.json")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tTITLE\tCATEGORY\tSCORE\tFREE")
	fmt.Fprintln(w, "----\t-----\t--------\t-----\t----")
	for _, n := range niches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%v\n", n.DisplayCode, n.Title, n.Category, n.Score, n.FreeTier)
	}
	w.Flush()
	return nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	var niches []catalog.Niche
	if err := json.Unmarshal(data, &niches); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewCatalogStore(db)
	created, updated, err := importNiches(context.Background(), store, niches)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d niches (%d new, %d updated)\n", created+updated, created, updated)
	return nil
}

// importNiches upserts by display code. New entries get generated IDs and,
// when the code is empty, the next sequential display code.
func importNiches(ctx context.Context, store ports.CatalogStore, niches []catalog.Niche) (created, updated int, err error) {
	ids := idgen.UUID{}

	count, err := store.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count niches: %w", err)
	}
	next := count + 1

	var processed []catalog.Niche
	for _, n := range niches {
		if n.Title == "" {
			return created, updated, fmt.Errorf("niche %q has no title", n.DisplayCode)
		}
		if n.DisplayCode == "" {
			n.DisplayCode = fmt.Sprintf("%04d", next)
			next++
		}
		if _, dup := catalog.FindByCode(processed, n.DisplayCode); dup {
			return created, updated, fmt.Errorf("display code %s appears twice in the import", n.DisplayCode)
		}
		processed = append(processed, n)

		existing, getErr := store.GetByCode(ctx, n.DisplayCode)
		switch {
		case getErr == nil:
			n.ID = existing.ID
			n.CreatedAt = existing.CreatedAt
			if err := store.Update(ctx, n); err != nil {
				return created, updated, fmt.Errorf("update %s: %w", n.DisplayCode, err)
			}
			updated++
		case errors.Is(getErr, ports.ErrNotFound):
			if n.ID == "" {
				n.ID = ids.New()
			}
			if err := store.Create(ctx, n); err != nil {
				return created, updated, fmt.Errorf("create %s: %w", n.DisplayCode, err)
			}
			created++
		default:
			return created, updated, fmt.Errorf("lookup %s: %w", n.DisplayCode, getErr)
		}
	}
	return created, updated, nil
}

func runCatalogSeed(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewCatalogStore(db)
	created, updated, err := importNiches(context.Background(), store, sampleNiches())
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d niches (%d new, %d updated)\n", created+updated, created, updated)
	return nil
}

func sampleNiches() []catalog.Niche {
	return []catalog.Niche{
		{
			DisplayCode: "0101",
			Title:       "Sleep tracker for shift workers",
			Category:    "health",
			Tags:        []string{"sleep", "shift-work"},
			Score:       72,
			FreeTier:    true,
			Stats: catalog.Stats{
				Competition:    "low",
				RevenueBracket: "$5K-$10K/mo",
				MarketSize:     "medium",
				TimeToMVP:      "6 weeks",
				Difficulty:     4,
			},
			Analysis: catalog.Analysis{
				Opportunity: "Existing sleep apps assume a fixed night schedule; rotating-shift workers are unserved.",
				Gap:         "No major tracker models irregular sleep windows or shift handovers.",
				Move:        "Ship a shift-calendar import and build streaks around sleep debt, not bedtime.",
			},
		},
		{
			DisplayCode: "0102",
			Title:       "Invoice OCR for freelancers",
			Category:    "finance",
			Tags:        []string{"ocr", "invoicing"},
			Score:       91,
			FreeTier:    false,
			Stats: catalog.Stats{
				Competition:    "medium",
				RevenueBracket: "$10K-$50K/mo",
				MarketSize:     "large",
				TimeToMVP:      "10 weeks",
				Difficulty:     6,
			},
			Analysis: catalog.Analysis{
				Opportunity: "Freelancers photograph receipts but still retype them into accounting tools.",
				Gap:         "Consumer OCR apps stop at extraction; none push straight into invoicing flows.",
				Move:        "Bundle extraction with one-tap invoice creation and quarterly tax buckets.",
			},
		},
		{
			DisplayCode: "0103",
			Title:       "Plant care reminders with photo diagnosis",
			Category:    "lifestyle",
			Tags:        []string{"plants", "computer-vision"},
			Score:       64,
			FreeTier:    true,
			Stats: catalog.Stats{
				Competition:    "high",
				RevenueBracket: "$1K-$5K/mo",
				MarketSize:     "medium",
				TimeToMVP:      "4 weeks",
				Difficulty:     3,
			},
			Analysis: catalog.Analysis{
				Opportunity: "Plant apps churn fast; retention lives in diagnosis, not watering timers.",
			},
		},
	}
}
