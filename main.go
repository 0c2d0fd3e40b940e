package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/divvyup/backend/internal/ledger"
	"github.com/divvyup/backend/internal/models"
	"github.com/divvyup/backend/internal/router"
	"github.com/divvyup/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title						Divvy Up API
// @description				The backend for Divvy Up, an envelope budgeting application.
// @contact.url				https://github.com/divvyup/backend
// @license.name				AGPL-3.0
// @license.url				https://github.com/divvyup/backend/blob/main/LICENSE
func main() {
	// Load a .env file if one exists, variables already set in the
	// environment win
	_ = godotenv.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	dbPath, ok := os.LookupEnv("DB_PATH")
	if !ok {
		dbPath = filepath.Join("data", "divvyup.db")
	}

	// Create the directory the database lives in
	err := os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database and migrate the schema
	err = models.Connect(dbPath)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	engine := ledger.New(storage.New(models.DB))

	r, teardown, err := router.Config()
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(r.Group("/"), engine)

	// The port can be set with the PORT environment variable,
	// gin defaults to 8080 when it is not set
	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
