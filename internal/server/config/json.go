package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Interval
// fields use timex.Duration, which accepts strings such as "168h" as well
// as integer nanoseconds. Absent keys leave the current value untouched.
type JsonConfig struct {
	EndpointAddrGRPC             string          `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP             string          `json:"endpoint_addr_http"`
	StoreBackend                 string          `json:"store_backend"`
	DatabaseDSN                  string          `json:"database_dsn"`
	RedisAddr                    string          `json:"redis_addr"`
	RedisPassword                string          `json:"redis_password"`
	RedisDB                      *int            `json:"redis_db"`
	RedisPrefix                  string          `json:"redis_prefix"`
	SecretKey                    string          `json:"secret_key"`
	Issuer                       string          `json:"issuer"`
	Audience                     string          `json:"audience"`
	AccessTokenExpirationMinutes *int            `json:"access_token_expiration_minutes"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	LogLevel                     string          `json:"log_level"`
}

// parseJson loads configuration values from the JSON file at path into
// config. An empty path means there is no file to load.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.RedisPrefix, c.RedisPrefix)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Issuer, c.Issuer)
	setString(&config.Audience, c.Audience)
	setString(&config.LogLevel, c.LogLevel)

	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.AccessTokenExpirationMinutes != nil {
		config.AccessTokenExpirationMinutes = *c.AccessTokenExpirationMinutes
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
