// Package app wires the domain services to their stores.
package app

import (
	"github.com/tutorbill/invoice-service/internal/app/services/auth"
	"github.com/tutorbill/invoice-service/internal/app/services/invoices"
	"github.com/tutorbill/invoice-service/internal/app/storage"
	"github.com/tutorbill/invoice-service/pkg/logger"
)

// Config carries the settings the services need. It is built once at startup
// and never mutated.
type Config struct {
	SecretKey  string
	BcryptCost int
}

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Users    storage.UserStore
	Invoices storage.InvoiceStore
}

// Application ties the auth gate and the invoice service together.
type Application struct {
	log *logger.Logger

	Auth     *auth.Service
	Invoices *invoices.Service
}

// New builds a fully initialised application with the provided stores.
func New(cfg Config, stores Stores, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := storage.NewMemory()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Invoices == nil {
		stores.Invoices = mem
	}

	return &Application{
		log:      log,
		Auth:     auth.New(stores.Users, cfg.SecretKey, cfg.BcryptCost, log.WithField("component", "auth")),
		Invoices: invoices.New(stores.Invoices, log.WithField("component", "invoices")),
	}
}
