package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fabiopossato/F-bio/apps/api/echo"
	"github.com/fabiopossato/F-bio/core"
	"github.com/fabiopossato/F-bio/core/academy"
	"github.com/fabiopossato/F-bio/core/student"
	"github.com/fabiopossato/F-bio/core/technique"
	dummymail "github.com/fabiopossato/F-bio/services/email/dummy"
	sendgridmail "github.com/fabiopossato/F-bio/services/email/sendgrid"
	logsvc "github.com/fabiopossato/F-bio/services/logger"
	snapshotdb "github.com/fabiopossato/F-bio/storage/snapshot"
	inmemstore "github.com/fabiopossato/F-bio/storage/snapshot/inmem"
	pgstore "github.com/fabiopossato/F-bio/storage/snapshot/postgres"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up snapshot store
	store, closeStore, err := setUpStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up snapshot store: %v", err), err)
	}
	defer closeStore()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = dummymail.NewService(conf.AppName, conf.DefaultFromEmail)
	} else {
		mailSvc = sendgridmail.NewService(conf.SendgridAPIKey, conf.AppName, conf.DefaultFromEmail, logger)
	}
	studentRepo := snapshotdb.NewStudentRepository(store)
	studentSvc := student.NewService(studentRepo, mailSvc, conf)
	techniqueSvc := technique.NewService(snapshotdb.NewTechniqueRepository(store))
	academySvc := academy.NewService(snapshotdb.NewAcademyRepository(store), mailSvc,
		func(ownerID string) (string, string, error) {
			stu, err := studentRepo.GetStudentByID(ownerID)
			return stu.Name, stu.Email, err
		})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:         conf,
			Logger:       logger,
			StudentSvc:   studentSvc,
			TechniqueSvc: techniqueSvc,
			AcademySvc:   academySvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpStore(conf *core.Config) (snapshotdb.Store, func(), error) {
	if conf.Database.Engine == "mem" {
		return inmemstore.Open(), func() {}, nil
	}

	store, err := pgstore.Open(conf)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
