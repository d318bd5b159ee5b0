package main

import (
	"log"
	"os"

	"github.com/fabiopossato/F-bio/core"
	snapshotdb "github.com/fabiopossato/F-bio/storage/snapshot"
	inmemstore "github.com/fabiopossato/F-bio/storage/snapshot/inmem"
	pgstore "github.com/fabiopossato/F-bio/storage/snapshot/postgres"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up snapshot store
	var store snapshotdb.Store
	if conf.Database.Engine == "mem" {
		store = inmemstore.Open()
	} else {
		pg, err := pgstore.Open(conf)
		errAndDie(err)
		defer func() { _ = pg.Close() }()
		store = pg
	}

	// start CLI
	cli := commandLine{
		store:       store,
		studentRepo: snapshotdb.NewStudentRepository(store),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
