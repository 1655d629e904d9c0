package config

import "time"

const (
	TriggerTicker = "ticker"
	TriggerAsynq  = "asynq"
)

// Bot - бот оператора. Канал публикации настраивается отдельно, в документе
// настроек.
type Bot struct {
	Token   string  `env:"BOT_TOKEN"    json:"-"`
	AdminID []int64 `env:"BOT_ADMIN_ID" envSeparator:","`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}

type HTTP struct {
	ListenAddress   string        `env:"HTTP_LISTEN_ADDRESS"   envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"HTTP_CORS_ORIGINS"     envDefault:"*"      envSeparator:","`
}

type Auth struct {
	AdminUsername string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string        `env:"ADMIN_PASSWORD,notEmpty" json:"-"`
	JWTSecret     string        `env:"JWT_SECRET,notEmpty"     json:"-"`
	TokenTTL      time.Duration `env:"TOKEN_TTL"      envDefault:"12h"`
}

type Scan struct {
	Interval         time.Duration `env:"SCAN_INTERVAL"          envDefault:"20m"`
	RequestTimeout   time.Duration `env:"SCAN_REQUEST_TIMEOUT"   envDefault:"15s"`
	PublishTimeout   time.Duration `env:"PUBLISH_TIMEOUT"        envDefault:"20s"`
	Trigger          string        `env:"SCAN_TRIGGER"           envDefault:"ticker"`
	AsynqConcurrency int           `env:"SCAN_ASYNQ_CONCURRENCY" envDefault:"1"`
	// AutoStart запускает периодическое сканирование вместе с serve.
	AutoStart bool `env:"SCAN_AUTO_START" envDefault:"true"`
}

type Ops struct {
	ProbeListenAddress  string `env:"PROBE_LISTEN_ADDRESS"  envDefault:":8081"`
	MetricListenAddress string `env:"METRIC_LISTEN_ADDRESS" envDefault:":9090"`
}

type Tracing struct {
	JaegerEndpoint string `env:"JAEGER_ENDPOINT"`
}
