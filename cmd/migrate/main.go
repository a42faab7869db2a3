package main

import (
	"database/sql"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"vantage/internal/config"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("db ping: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose dialect: %v", err)
	}

	dir := "internal/migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	log.Info("running database migrations")
	if err := goose.Up(db, dir); err != nil {
		log.Fatalf("goose up: %v", err)
	}
	log.Info("migrations completed")
}
