package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"

	"github.com/iliyamo/cinema-showtimes/internal/logging"
)

// Default link templates. {id} is replaced with the encoded identifier.
const (
	DefaultTicketURLTemplate  = "https://widget.afisha.yandex.ru/w/sessions/{id}"
	DefaultCatalogURLTemplate = "https://www.kinopoisk.ru/film/{id}/"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time‑to‑live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	// Location is used to resolve "today" when a request omits the date.
	Location *time.Location

	TicketURLTemplate  string   // session ticket link, {id} is base64 of the external ticket id
	CatalogURLTemplate string   // movie catalog link, {id} is the external rating id
	CORSOrigins        []string // allowed CORS origins, "*" when unset
	LogLevel           string
	LogFormat          string
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:                must("APP_ENV"),                 // environment (dev/test/prod)
		Port:               must("APP_PORT"),                // port to bind the HTTP server
		DBUser:             must("DB_USER"),                 // database user
		DBPass:             os.Getenv("DB_PASS"),            // database password (empty allowed)
		DBHost:             must("DB_HOST"),                 // database host
		DBPort:             must("DB_PORT"),                 // database port
		DBName:             must("DB_NAME"),                 // database name
		JWTSecret:          must("JWT_SECRET"),              // secret used for signing JWTs
		AccessTTLMin:       mustInt("ACCESS_TOKEN_TTL_MIN"), // TTL for access tokens in minutes
		BcryptCost:         mustInt("BCRYPT_COST"),          // bcrypt cost factor
		Location:           mustLocation(getenv("APP_TIMEZONE", "UTC")),
		TicketURLTemplate:  getenv("TICKET_URL_TEMPLATE", DefaultTicketURLTemplate),
		CatalogURLTemplate: getenv("CATALOG_URL_TEMPLATE", DefaultCatalogURLTemplate),
		CORSOrigins:        parseList(getenv("CORS_ORIGINS", "*")),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		LogFormat:          getenv("LOG_FORMAT", "json"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logging.Fatal().Str("key", key).Msg("missing required env var")
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		logging.Fatal().Str("key", key).Str("value", s).Msg("invalid int")
	}
	return n
}

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logging.Fatal().Err(err).Str("timezone", name).Msg("invalid APP_TIMEZONE")
	}
	return loc
}

func parseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
