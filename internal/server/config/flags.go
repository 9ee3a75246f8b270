package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/pessoas/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              HTTP bind address (e.g. ":8000")
//	-m string              metrics bind address (e.g. ":8001")
//	-d string              PostgreSQL DSN
//	-o string              OTLP/gRPC collector endpoint
//	-otlp-insecure         use plaintext to reach the collector
//	-n string              service name
//	-drop-schema           roll back the schema on shutdown
//	-hash-passwords        hash passwords before storing them
//	-shutdown-timeout dur  graceful shutdown period (e.g. "10s")
//	-l string              log level
//
// Only these flags are taken from os.Args (see flagx.FilterArgs); -c and
// -env-file belong to the other layers.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-m", "-d", "-o", "-otlp-insecure", "-n",
		"-drop-schema", "-hash-passwords", "-shutdown-timeout", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to expose metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.OTLPEndpoint, "o", config.OTLPEndpoint, "OTLP gRPC endpoint")
	fs.BoolVar(&config.OTLPInsecure, "otlp-insecure", config.OTLPInsecure, "disable TLS for OTLP exporter")
	fs.StringVar(&config.ServiceName, "n", config.ServiceName, "service name")
	fs.BoolVar(&config.DropSchemaOnShutdown, "drop-schema", config.DropSchemaOnShutdown, "drop schema on shutdown")
	fs.BoolVar(&config.HashPasswords, "hash-passwords", config.HashPasswords, "hash passwords before storing")
	fs.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
