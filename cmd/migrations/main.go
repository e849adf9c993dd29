package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/ballot/internal/adapters/repository/sqldb"
	"github.com/vncsmyrnk/ballot/internal/config"
	_ "modernc.org/sqlite"
)

// Applies the credential table schema. With a migration name only that file
// is executed, e.g. `migrations 001_create_credentials.down`.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var driver, dsn string
	flag.StringVar(&driver, "driver", defaultDriver(cfg), "Database driver (postgres or sqlite)")
	flag.StringVar(&dsn, "dsn", "", "Database connection string, defaults to DATABASE_URL or SQLITE_PATH")
	flag.Parse()

	if dsn == "" {
		dsn = cfg.DatabaseURL
		if driver == sqldb.DriverSQLite {
			dsn = cfg.SQLitePath
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sqldb.Open(ctx, driver, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if flag.NArg() == 0 {
		if err := sqldb.Migrate(ctx, db); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Migrations executed successfully.")
		return
	}

	name, content, err := sqldb.Migration(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		log.Fatalf("Failed to execute SQL file: %v", err)
	}

	fmt.Printf("Migration file %s executed successfully.\n", name)
}

func defaultDriver(cfg *config.Config) string {
	if cfg.CredentialStore == "sqlite" {
		return sqldb.DriverSQLite
	}
	return sqldb.DriverPostgres
}
