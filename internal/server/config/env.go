package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// dotEnvFiles lists the files godotenv loads before the environment is read.
// Variables already present in the process environment win.
var dotEnvFiles = []string{".env"}

// parseEnv overlays GOPHSESSION_* environment variables onto config. Only
// variables that are set change a field.
func parseEnv(config *Config) error {
	for _, f := range dotEnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return envconfig.Process(EnvPrefix, config)
}
