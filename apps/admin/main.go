package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/protimer/core"
	logsvc "github.com/trezcool/protimer/services/logger"
	"github.com/trezcool/protimer/storage/database"
	sqlxrepos "github.com/trezcool/protimer/storage/database/sqlx"
)

func main() {
	os.Exit(start())
}

func start() int {
	conf := core.NewConfig()

	zl, err := logsvc.NewZap(conf)
	if err != nil {
		log.Printf("admin.NewZap(): %v", err)
		return 1
	}
	logger := logsvc.NewRollbarLogger(zl.Named("admin"), conf)
	defer logger.Sync()

	// set up DB
	if err = database.CreateIfNotExist(conf); err != nil {
		logger.Error(fmt.Sprintf("creating database: %v", err), err)
		return 1
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Error(fmt.Sprintf("opening database: %v", err), err)
		return 1
	}
	defer db.Close()

	// start CLI
	cli := commandLine{
		db:      db,
		usrRepo: sqlxrepos.NewUserRepository(sqlxrepos.NewDB(db)),
		logger:  logger,
	}
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		return 1
	}
	return 0
}
