package main

import (
	"flag"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/himanishpuri/PhysioFeat/pkg/logger"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/features"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/storage"
)

var (
	port           int
	dbPath         string
	configPath     string
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("PHYSIO_DB_PATH", storage.DefaultDBFile), "SQLite file or postgres/mysql DSN")
	flag.StringVar(&configPath, "config", os.Getenv("PHYSIO_CONFIG"), "TOML extraction config (defaults when empty)")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()
	log := logger.GetLogger()
	gin.SetMode(gin.ReleaseMode)

	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	cfg := features.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = physiofeat.LoadConfigFile(configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	service, err := physiofeat.NewService(
		physiofeat.WithDBPath(dbPath),
		physiofeat.WithFeatureConfig(cfg),
		physiofeat.WithLogger(log),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	server := NewServer(service, &ServerConfig{
		Port:           port,
		DBPath:         dbPath,
		AllowedOrigins: origins,
	}, log)
	if err := server.Start(); err != nil {
		service.Close()
		log.Fatalf("Server failed: %v", err)
	}
}
