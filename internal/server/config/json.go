package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/pessoas/internal/flagx"
	"github.com/dmitrijs2005/pessoas/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Booleans are
// pointers so that an absent key leaves the current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP     string         `json:"endpoint_addr_http"`
	MetricsAddr          string         `json:"metrics_addr"`
	DatabaseDSN          string         `json:"database_dsn"`
	OTLPEndpoint         string         `json:"otlp_endpoint"`
	OTLPInsecure         *bool          `json:"otlp_insecure"`
	ServiceName          string         `json:"service_name"`
	ServiceNamespace     string         `json:"service_namespace"`
	ServiceInstanceID    string         `json:"service_instance_id"`
	DropSchemaOnShutdown *bool          `json:"drop_schema_on_shutdown"`
	HashPasswords        *bool          `json:"hash_passwords"`
	ShutdownTimeout      timex.Duration `json:"shutdown_timeout"`
	LogLevel             string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Keys missing from the file keep their current value. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)
	setBool(&config.OTLPInsecure, c.OTLPInsecure)
	setString(&config.ServiceName, c.ServiceName)
	setString(&config.ServiceNamespace, c.ServiceNamespace)
	setString(&config.ServiceInstanceID, c.ServiceInstanceID)
	setBool(&config.DropSchemaOnShutdown, c.DropSchemaOnShutdown)
	setBool(&config.HashPasswords, c.HashPasswords)
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
