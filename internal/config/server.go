package config

import (
	"flag"
	"os"
)

// ServerConfig configures the development ingest server.
type ServerConfig struct {
	TCPAddress    string
	HTTPAddress   string
	APIKey        string
	DatabaseDSN   string
	MigrationsURL string
	AuditFile     string
	AuditURL      string
}

// NewServerConfig parses server flags and environment overrides.
func NewServerConfig() (*ServerConfig, error) {
	config := &ServerConfig{
		TCPAddress:    "localhost:8000",
		HTTPAddress:   "localhost:8080",
		APIKey:        "",
		DatabaseDSN:   "",
		MigrationsURL: "file://./migrations",
		AuditFile:     "",
		AuditURL:      "",
	}

	tcpAddress := flag.String("t", config.TCPAddress, "ingest listen address")
	httpAddress := flag.String("a", config.HTTPAddress, "read api listen address")
	apiKey := flag.String("k", config.APIKey, "api key clients must authenticate with")
	databaseDSN := flag.String("d", config.DatabaseDSN, "database dsn, empty for in-memory storage")
	migrationsURL := flag.String("m", config.MigrationsURL, "migrations source url")
	auditFile := flag.String("audit-file", config.AuditFile, "file to append notice audit records to")
	auditURL := flag.String("audit-url", config.AuditURL, "url to post notice audit records to")
	flag.Parse()

	envVars := map[string]*string{
		"TCP_ADDRESS":    tcpAddress,
		"ADDRESS":        httpAddress,
		"API_KEY":        apiKey,
		"DATABASE_DSN":   databaseDSN,
		"MIGRATIONS_URL": migrationsURL,
		"AUDIT_FILE":     auditFile,
		"AUDIT_URL":      auditURL,
	}
	for envVar, target := range envVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			*target = envValue
		}
	}

	config.TCPAddress = *tcpAddress
	config.HTTPAddress = *httpAddress
	config.APIKey = *apiKey
	config.DatabaseDSN = *databaseDSN
	config.MigrationsURL = *migrationsURL
	config.AuditFile = *auditFile
	config.AuditURL = *auditURL

	return config, nil
}
