package config

type App struct {
	Port          string `env:"APP_PORT" default:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	JWTSecret     string `env:"JWT_SECRET,required"`
	CallbackToken string `env:"CALLBACK_TOKEN,required"`
	CommissionPct string `env:"COMMISSION_PCT" default:"0"`
	SettleSweep   int    `env:"SETTLE_SWEEP_SEC" default:"0"`
	Env           string `env:"APP_ENV" default:"dev"`
}
