package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"clinic-booking/internal/configs"
	"clinic-booking/internal/database"
	"clinic-booking/internal/integrity"
	"clinic-booking/internal/logging"

	zlog "github.com/rs/zerolog/log"
)

var (
	configPath = flag.String("config", "", "Config file path")
	asJSON     = flag.Bool("json", false, "Print the report as JSON instead of log lines")
)

func main() {
	flag.Parse()
	if *configPath == "" {
		zlog.Fatal().Msg("no config file path was given")
	}
	config, err := configs.Load(*configPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("could not load the configuration")
	}
	logger := logging.New(os.Stderr, config.LogLevel(), config.LogPretty())
	zlog.Logger = logger

	dbConn, err := database.NewConnection(config)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to the database")
	}
	defer dbConn.Close()

	report := integrity.NewChecker(dbConn).Run(context.Background())
	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(report)
	} else {
		report.Log(logger)
	}
	if !report.Healthy() {
		dbConn.Close()
		os.Exit(1)
	}
}
