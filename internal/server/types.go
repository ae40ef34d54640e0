package server

import (
	"github.com/robertozapata/portfolio/internal/api/handlers"
	"github.com/robertozapata/portfolio/internal/config"
	"github.com/robertozapata/portfolio/internal/contact"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/logging"
)

// Dependencies are the components the HTTP layer serves
type Dependencies struct {
	Config  *config.Config
	Logger  *logging.Logger
	Catalog *i18n.Catalog
	Contact *contact.Service
	// Mailer backs the health check. It may be nil.
	Mailer handlers.Checker
}
