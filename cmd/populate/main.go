// Command populate loads the demonstration catalog into the configured
// database. Equivalent to "biblio populate", kept as a standalone
// binary for container init jobs.
package main

import (
	"flag"
	"log"

	"github.com/avolkau/biblio/internal/config"
	"github.com/avolkau/biblio/internal/database"
	"github.com/avolkau/biblio/internal/seed"
)

func main() {
	dbPath := flag.String("db", "", "database path (defaults to DATABASE_PATH)")
	flag.Parse()

	path := *dbPath
	if path == "" {
		path = config.NewConfig().Database.Path
	}

	db, err := database.NewDatabase(path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := seed.Load(db); err != nil {
		log.Fatalf("Failed to populate database: %v", err)
	}

	log.Printf("Demonstration catalog loaded into %s", path)
}
