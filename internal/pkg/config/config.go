package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Bakong  BakongConfig
	Payment PaymentConfig
	Sweep   SweepConfig
	Notify  NotifyConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Phnom_Penh"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Session-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Phnom_Penh"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"25200"` // 7*60*60
}

// reseller セッションの検証にのみ使用する（発行は別システム）
type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

// Addr が空の場合はプロセス内のクールダウンストアにフォールバックする
type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR" default:""`
	Password  string `envconfig:"REDIS_PASSWORD" default:""`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"topup:"`
}

type KafkaConfig struct {
	Brokers      []string      `envconfig:"KAFKA_BROKERS" default:""`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"5s"`
}

type BakongConfig struct {
	BaseURL            string        `envconfig:"BAKONG_BASE_URL" required:"true"`
	Token              string        `envconfig:"BAKONG_TOKEN" required:"true"`
	GeneratePath       string        `envconfig:"BAKONG_GENERATE_PATH" default:"/v1/generate_khqr"`
	CheckPath          string        `envconfig:"BAKONG_CHECK_PATH" default:"/v1/check_transaction_by_md5"`
	AccountID          string        `envconfig:"BAKONG_ACCOUNT_ID" required:"true"`
	AccountName        string        `envconfig:"BAKONG_ACCOUNT_NAME" required:"true"`
	AccountInformation string        `envconfig:"BAKONG_ACCOUNT_INFORMATION" default:""`
	Address            string        `envconfig:"BAKONG_ADDRESS" default:"Phnom Penh"`
	Currency           string        `envconfig:"BAKONG_CURRENCY" default:"USD"`
	Timeout            time.Duration `envconfig:"BAKONG_TIMEOUT" default:"10s"`
	MaxAttempts        uint64        `envconfig:"BAKONG_MAX_ATTEMPTS" default:"3"`
	RetryDelay         time.Duration `envconfig:"BAKONG_RETRY_DELAY" default:"1s"`
	RequestsPerSecond  float64       `envconfig:"BAKONG_RPS" default:"20"`
}

type PaymentConfig struct {
	MinAmountCents  int64         `envconfig:"PAYMENT_MIN_AMOUNT_CENTS" default:"1"`
	QRCooldown      time.Duration `envconfig:"PAYMENT_QR_COOLDOWN" default:"180s"`
	PollInterval    time.Duration `envconfig:"PAYMENT_POLL_INTERVAL" default:"2s"`
	QRExpiry        time.Duration `envconfig:"PAYMENT_QR_EXPIRY" default:"5m"`
	OrderLogChannel string        `envconfig:"PAYMENT_ORDER_LOG_CHANNEL" default:""` // 例: telegram:-1001234567890
}

type SweepConfig struct {
	Enabled    bool          `envconfig:"SWEEP_ENABLED" default:"true"`
	Interval   time.Duration `envconfig:"SWEEP_INTERVAL" default:"5m"`
	Lookback   time.Duration `envconfig:"SWEEP_LOOKBACK" default:"30m"`
	MinAge     time.Duration `envconfig:"SWEEP_MIN_AGE" default:"1m"`
	VerifyGap  time.Duration `envconfig:"SWEEP_VERIFY_GAP" default:"1s"`
	SecretHash string        `envconfig:"SWEEP_SECRET_HASH" required:"true"` // bcrypt
}

type NotifyConfig struct {
	TelegramAPIURL   string        `envconfig:"TELEGRAM_API_URL" default:"https://api.telegram.org"`
	TelegramBotToken string        `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	Timeout          time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"10s"`
	MaxRetries       int           `envconfig:"NOTIFY_MAX_RETRIES" default:"3"`
	RetryDelay       time.Duration `envconfig:"NOTIFY_RETRY_DELAY" default:"1s"`
	QueueSize        int           `envconfig:"NOTIFY_QUEUE_SIZE" default:"1024"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Phnom_Penh",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Phnom_Penh",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 25200,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Redis: RedisConfig{
			KeyPrefix: "topup-test:",
		},
		Kafka: KafkaConfig{
			WriteTimeout: time.Second,
		},
		Bakong: BakongConfig{
			BaseURL:           "http://localhost:18080",
			Token:             "test-token",
			GeneratePath:      "/v1/generate_khqr",
			CheckPath:         "/v1/check_transaction_by_md5",
			AccountID:         "shop@aclb",
			AccountName:       "Test Shop",
			Address:           "Phnom Penh",
			Currency:          "USD",
			Timeout:           time.Second,
			MaxAttempts:       3,
			RetryDelay:        10 * time.Millisecond,
			RequestsPerSecond: 1000,
		},
		Payment: PaymentConfig{
			MinAmountCents: 1,
			QRCooldown:     180 * time.Second,
			PollInterval:   20 * time.Millisecond,
			QRExpiry:       5 * time.Minute,
		},
		Sweep: SweepConfig{
			Enabled:   false,
			Interval:  time.Minute,
			Lookback:  30 * time.Minute,
			MinAge:    0,
			VerifyGap: time.Millisecond,
		},
		Notify: NotifyConfig{
			TelegramAPIURL: "http://localhost:18081",
			Timeout:        time.Second,
			MaxRetries:     3,
			RetryDelay:     time.Millisecond,
			QueueSize:      64,
		},
	}
}
