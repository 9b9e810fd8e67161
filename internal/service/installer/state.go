package installer

// Settings is what the wizard writes to the runtime .env file.
// Booleans are strings so that an explicit "false" is persisted.
type Settings struct {
	GeocoderPrimary     string   `env:"GEOCODER_PRIMARY"`
	GeocoderSecondaries []string `env:"GEOCODER_SECONDARIES" envSeparator:","`
	PeliasKey           string   `env:"PELIAS_API_KEY"`
	GoogleKey           string   `env:"GOOGLE_API_KEY"`

	EnableWebhook  string `env:"STOPTEXT_ENABLE_WEBHOOK"`
	EnableTelegram string `env:"STOPTEXT_ENABLE_TELEGRAM"`
	EnableCLI      string `env:"STOPTEXT_ENABLE_CLI"`
	TelegramToken  string `env:"STOPTEXT_TELEGRAM_TOKEN"`

	DatabaseDriver string `env:"STOPTEXT_DB_DRIVER"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MessagesPath   string `env:"STOPTEXT_MESSAGES_PATH"`
	Debug          string `env:"STOPTEXT_DEBUG"`
}

type InstallState struct {
	Settings Settings
	// Channel is the transport picked in the wizard; it is folded into the
	// Enable* flags when the wizard finishes.
	Channel string
}

func NewInstallState() *InstallState {
	return &InstallState{}
}
