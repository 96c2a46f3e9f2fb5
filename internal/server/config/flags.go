package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophsession/internal/flagx"
)

var serverFlags = []string{
	"-a", "-http", "-store", "-d", "-redis", "-redis-db",
	"-s", "-iss", "-aud", "-t", "-r", "-l",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string      gRPC bind address (e.g., ":50051")
//	-http string   HTTP bind address, empty disables it
//	-store string  store backend: postgres, redis or memory
//	-d string      PostgreSQL DSN
//	-redis string  Redis address
//	-redis-db int  Redis logical database
//	-s string      JWT HMAC secret key
//	-iss string    JWT issuer
//	-aud string    JWT audience
//	-t int         access token expiration, minutes (use -t=-1 for negatives)
//	-r duration    refresh token validity (e.g., "168h")
//	-l string      log level
//
// args are filtered with flagx.FilterArgs first, so flags that belong to
// other components (subcommands, the -c config flag) do not collide.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "http", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.StoreBackend, "store", config.StoreBackend, "store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	fs.IntVar(&config.RedisDB, "redis-db", config.RedisDB, "redis database")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.Issuer, "iss", config.Issuer, "token issuer")
	fs.StringVar(&config.Audience, "aud", config.Audience, "token audience")
	fs.IntVar(&config.AccessTokenExpirationMinutes, "t", config.AccessTokenExpirationMinutes, "access token expiration (in minutes)")
	fs.DurationVar(&config.RefreshTokenValidityDuration, "r", config.RefreshTokenValidityDuration, "refresh token validity")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(flagx.FilterArgs(args, serverFlags))
}
