package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/pressly/goose/v3"

	"contactdesk.org/internal/config"
	"contactdesk.org/internal/store"
	"contactdesk.org/internal/store/migrations"
)

func main() {
	log.SetFlags(0)
	dsn := flag.String("dsn", "", "PostgreSQL DSN (defaults to the DATABASE_* environment)")
	flag.Parse()

	if *dsn == "" {
		*dsn = config.Load().DatabaseDSN
	}
	command := "up"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := store.Open(*dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("set dialect: %v", err)
	}

	switch command {
	case "up":
		err = goose.UpContext(ctx, db, ".")
	case "down":
		err = goose.DownContext(ctx, db, ".")
	case "status":
		err = goose.StatusContext(ctx, db, ".")
	default:
		log.Fatalf("usage: migrate [up|down|status]")
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
}
