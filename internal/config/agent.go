// Package config provides flag and environment configuration for the agent
// and server binaries.
package config

import (
	"flag"
	"os"
	"strconv"
)

// AgentConfig configures the reporting agent.
type AgentConfig struct {
	Address        string
	APIKey         string
	Prefix         string
	ReportInterval int
}

// NewAgentConfig parses agent flags and environment overrides.
func NewAgentConfig() (*AgentConfig, error) {
	config := &AgentConfig{
		Address:        "localhost:8000",
		APIKey:         "",
		Prefix:         "",
		ReportInterval: 10,
	}

	address := flag.String("a", config.Address, "backend address host:port")
	apiKey := flag.String("k", config.APIKey, "api key for the authenticate step")
	prefix := flag.String("p", config.Prefix, "prefix for all metric names")
	reportInterval := flag.Int("r", config.ReportInterval, "seconds between report cycles")
	flag.Parse()

	envStrVars := map[string]*string{
		"ADDRESS": address,
		"API_KEY": apiKey,
		"PREFIX":  prefix,
	}
	for envVar, target := range envStrVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			*target = envValue
		}
	}

	if envInterval := os.Getenv("REPORT_INTERVAL"); envInterval != "" {
		interval, err := strconv.Atoi(envInterval)
		if err != nil {
			return nil, err
		}
		*reportInterval = interval
	}

	config.Address = *address
	config.APIKey = *apiKey
	config.Prefix = *prefix
	config.ReportInterval = *reportInterval

	return config, nil
}
