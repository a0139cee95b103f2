package pantrypal

import "time"

// StorageConfig selects and configures the key-value backend holding the persistence slots.
type StorageConfig struct {
	Backend     string `env:"STORAGE_BACKEND,default=file"`
	FileDir     string `env:"STORAGE_FILE_DIR,default=artifacts/storage"`
	S3Bucket    string `env:"STORAGE_S3_BUCKET"`
	S3Prefix    string `env:"STORAGE_S3_PREFIX,default=pantrypal/"`
	DatabaseURL string `env:"DATABASE_URL"`
}

type RecipeAPIConfig struct {
	BaseURL string `env:"SPOONACULAR_BASE_URL,default=https://api.spoonacular.com"`
	// APIKey is only a fallback; a key saved through the recipe session takes precedence.
	APIKey string `env:"SPOONACULAR_API_KEY"`
}

type ProductAPIConfig struct {
	BaseURL string `env:"OPENFOODFACTS_BASE_URL,default=https://world.openfoodfacts.org"`
}

type ServerConfig struct {
	Addr            string        `env:"ADDR,default=:8080"`
	AllowOrigins    []string      `env:"CORS_ALLOW_ORIGINS,default=http://localhost:5173"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=30s"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	// EventLog is where store events go besides the websocket feed: stdout, file, or none.
	EventLog string `env:"EVENT_LOG,default=stdout"`
}

type AlertConfig struct {
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
	SlackChannel    string `env:"SLACK_CHANNEL,default=#pantry"`
	ExpiringDays    int    `env:"EXPIRING_DAYS,default=3"`
}
