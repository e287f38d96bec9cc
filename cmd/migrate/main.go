// migrate aplica las migraciones embebidas: go run ./cmd/migrate -direction up
package main

import (
	"flag"
	"fmt"
	"os"

	"amicus-backend/internal/config"
	"amicus-backend/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.DBDSN == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN is not set")
		os.Exit(1)
	}

	if err := migrate.Run(cfg.DBDSN, *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
