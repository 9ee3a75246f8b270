package config

import (
	"errors"
	"io/fs"

	"github.com/dmitrijs2005/pessoas/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// defaultEnvFile is loaded when present and no -env-file flag is given.
const defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment (variables
// already set win) and then overlays environment variables onto config.
// Variables that are not set leave the field untouched. A missing default
// .env is ignored; a missing file named by -env-file, or an unparsable
// variable, panics.
func parseEnv(config *Config) {
	path := flagx.EnvFilePath()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if err := envconfig.Process("", config); err != nil {
		panic(err)
	}
}
