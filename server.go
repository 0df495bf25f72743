package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cms-acad/acadbot_backend/config"
	"github.com/cms-acad/acadbot_backend/models"
)

func main() {
	logger := config.GetLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithField("field", "config").Fatal(err.Error())
	}

	cm := models.ColumnMap{
		MatriculeCol: cfg.MatriculeCol,
		ProgramCol:   cfg.ProgramCol,
		SectionCol:   cfg.SectionCol,
	}
	logger.WithFields(logrus.Fields{
		"matricule": cm.MatriculeCol,
		"program":   cm.ProgramCol,
		"section":   cm.SectionCol,
	}).Info("colonnes utilisées")

	catalog, _ := models.LoadCatalog(cfg.ExcelFile, cm)
	holder := models.NewCatalogHolder(catalog)
	ledger := models.LoadClaimLedger(cfg.ClaimFile)

	srv := startKeepAlive(cfg.Port, holder, time.Now())

	b, err := newBot(cfg, holder, ledger)
	if err != nil {
		logger.WithField("field", "discord").Fatal(err.Error())
	}

	// Login failure is the only error we refuse to ride out.
	if err := b.open(); err != nil {
		logger.WithField("field", "discord").Fatal("échec de connexion. Vérifiez le token Discord: " + err.Error())
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	logger.Info("arrêt du bot")
	if err := b.close(); err != nil {
		config.LogError(logger, "server.go", "main", "close session", nil, err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.LogError(logger, "server.go", "main", "shutdown http", nil, err)
	}
}
