// Command importer loads the HR employee CSV into the database.
package main

import (
	"flag"
	"os"

	"github.com/fatih/color"

	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/database"
	"github.com/samyuktha-jana/SAP-hackathon/internal/importer"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
)

func main() {
	csvPath := flag.String("csv", "Employee Dataset1.csv", "employee CSV exported from HR")
	cfgPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		color.Red("load config: %v", err)
		os.Exit(1)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		color.Red("open database: %v", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		color.Red("migrate: %v", err)
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		color.Red("open %s: %v", *csvPath, err)
		os.Exit(1)
	}
	defer f.Close()

	color.Cyan("📥 Importing %s into %s", *csvPath, cfg.Database.Path)
	res, err := importer.New(db, logger.Nop()).Import(f)
	if err != nil {
		color.Red("import failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Imported %d employees (%d mentors)", res.Imported, res.Mentors)
	if res.RewardsCreated > 0 {
		color.Green("🏆 Opened %d reward balances", res.RewardsCreated)
	}
	for _, s := range res.Skipped {
		color.Yellow("⚠ skipped: %s", s)
	}
}
