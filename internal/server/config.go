package server

import (
	"github.com/prestafacil/avaluador/internal/app"
	"github.com/prestafacil/avaluador/internal/interfaces"
)

type Config struct {
	// ListenAddr is the HTTP listen address. Empty falls back to the
	// address configured on AppConfig.
	ListenAddr string

	// AppConfig configures the application the server is built around.
	// Nil means defaults.
	AppConfig *app.Config

	// Logger defaults to a stdout logger named for the server.
	Logger interfaces.Logger
}
