package main

import (
	"context"
	"log"
	"os"

	"github.com/janusipm/brandvigilante/internal/admincli"
	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/server"
	"github.com/janusipm/brandvigilante/internal/server/config"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := server.OpenDB(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)
	app := admincli.NewApp(cfg, db, repomanager.NewPostgresRepositoryManager(), os.Stdin, os.Stdout, logger)

	if err := app.Run(ctx, admincli.CommandArgs(os.Args[1:])); err != nil {
		db.Close()
		log.Fatalf("%v", err)
	}

}
