package main

import (
	"log/slog"

	"spacesreader/internal/config"
	"spacesreader/pkg/formatter"
	"spacesreader/pkg/reader/dospaces"
)

// appContainer holds the shared dependencies for the application:
// configuration, formatters, and the logger
type appContainer struct {
	Config        *config.Config
	ConfigManager *config.ConfigManager
	DocFormatter  *formatter.DocumentFormatter
	Logger        *slog.Logger
}

// Creates and initializes a new application container
func newApp(logger *slog.Logger) (*appContainer, error) {
	cfgManager, err := config.NewConfigManager()
	if err != nil {
		return nil, err
	}

	cfg, err := cfgManager.LoadConfig()
	if err != nil {
		return nil, err
	}

	return &appContainer{
		Config:        cfg,
		ConfigManager: cfgManager,
		DocFormatter:  formatter.NewDocumentFormatter(),
		Logger:        logger,
	}, nil
}

// connectorConfig maps the loaded settings onto the connector
// configuration. An empty bucketOverride keeps the configured bucket.
func (app *appContainer) connectorConfig(bucketOverride string) dospaces.Config {
	cfg := dospaces.DefaultConfig()

	cfg.Bucket = app.Config.Spaces.Bucket
	if bucketOverride != "" {
		cfg.Bucket = bucketOverride
	}
	cfg.KeyID = app.Config.Spaces.KeyID
	cfg.SecretKey = app.Config.Spaces.SecretKey
	cfg.EndpointURL = app.Config.Spaces.EndpointURL
	cfg.Region = app.Config.Spaces.Region

	cfg.Key = app.Config.Load.Key
	cfg.Prefix = app.Config.Load.Prefix
	cfg.Recursive = app.Config.Load.Recursive
	cfg.FilenameAsID = app.Config.Load.FilenameAsID
	cfg.RequiredExts = app.Config.Load.RequiredExts
	cfg.NumFilesLimit = app.Config.Load.NumFilesLimit
	cfg.Workers = app.Config.Load.Workers

	return cfg
}
