// Command mentor-mcp serves the mentorship tools over MCP stdio on behalf
// of one employee.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/samyuktha-jana/SAP-hackathon/internal/app"
	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/database"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/mcpserver"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"
)

func main() {
	email := flag.String("email", os.Getenv("MM_USER_EMAIL"), "employee the tools act for")
	cfgPath := flag.String("config", "", "path to config.yaml")
	logPath := flag.String("log", "logs/mcp.log", "log file (stdout is reserved for the protocol)")
	flag.Parse()

	user := strings.ToLower(strings.TrimSpace(*email))
	if err := util.ValidateEmail(user); err != nil {
		fmt.Fprintf(os.Stderr, "-email: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	zl, err := logger.NewFileOnly(*logPath, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync()

	db, err := database.Init(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, zl, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wire services: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	zl.Info("mcp", "serving tools", map[string]interface{}{"user": user})
	if err := mcpserver.ServeStdio(mcpserver.New(a.Tools, user)); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
