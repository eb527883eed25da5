package config

import (
	"time"
)

type DB struct {
	// URL selects the store by scheme: postgres://, sqlite://<path>, file: or memory://.
	Url string `envconfig:"URL" default:"sqlite://wealthdash.db"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Strategy string `envconfig:"STRATEGY" default:"jwt"`
	Jwt      *Jwt   `envconfig:"JWT"`
}

type Redis struct {
	// URL enables the shared summary cache. Empty keeps summaries in process.
	URL       string `envconfig:"URL"`
	KeyPrefix string `envconfig:"KEY_PREFIX" default:"wealthdash:"`
}

type Cache struct {
	TTL time.Duration `envconfig:"TTL" default:"5m"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Reconcile struct {
	// EnforceFunds rejects debits that would take a Bank or Cash account below zero.
	EnforceFunds bool `envconfig:"ENFORCE_FUNDS" default:"false"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[wealthdash]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	Redis     *Redis     `envconfig:"REDIS"`
	Cache     *Cache     `envconfig:"CACHE"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Reconcile *Reconcile `envconfig:"RECONCILE"`
}
