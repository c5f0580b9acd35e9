package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultPrefix — префикс переменных окружения сервиса.
const DefaultPrefix = "NOTIFY"

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR"`
	GinMode           string        `default:"debug" envconfig:"GIN_MODE"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"30s" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	HandlerTimeout    time.Duration `default:"20s" envconfig:"HANDLER_TIMEOUT"`
	GracefulTimeout   time.Duration `default:"10s" envconfig:"GRACEFUL_TIMEOUT"`
}

// Metrics — отдельный сервер метрик. Пустой адрес отключает его, /metrics остаётся на основном роутере.
type Metrics struct {
	Addr string `default:"" envconfig:"ADDR"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"notify-gateway" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

// Upstream — платформа уведомлений.
type Upstream struct {
	BaseURL          string        `default:"https://platform.tt02.altinn.no" envconfig:"BASE_URL"`
	RequestTimeout   time.Duration `default:"15s" envconfig:"REQUEST_TIMEOUT"`
	EmailFromAddress string        `default:"" envconfig:"EMAIL_FROM_ADDRESS"`
	SmsSenderNumber  string        `default:"" envconfig:"SMS_SENDER_NUMBER"`
}

// Maskinporten — выпуск JWT-гранта и обмен токена.
type Maskinporten struct {
	BaseURL      string        `default:"https://test.maskinporten.no" envconfig:"BASE_URL"`
	ClientID     string        `default:"" envconfig:"CLIENT_ID"`
	JWK          string        `default:"" envconfig:"JWK"`
	Scope        string        `default:"altinn:serviceowner/notifications.create" envconfig:"SCOPE"`
	AssertionTTL time.Duration `default:"2m" envconfig:"ASSERTION_TTL"`
	ExpirySkew   time.Duration `default:"30s" envconfig:"EXPIRY_SKEW"`
}

type Orders struct {
	ScheduleLookahead time.Duration `default:"5m" envconfig:"SCHEDULE_LOOKAHEAD"`
	PageSize          int           `default:"5" envconfig:"PAGE_SIZE"`
}

type Validation struct {
	SmsMaxLength  int           `default:"157" envconfig:"SMS_MAX_LENGTH"`
	SendTimeSlack time.Duration `default:"1m" envconfig:"SEND_TIME_SLACK"`
}

// Recipients — подмена тестовых персональных номеров адресами почты (nin:email,...).
type Recipients struct {
	TestEmails map[string]string `envconfig:"TEST_EMAILS"`
}

type Kafka struct {
	Enabled        bool          `default:"false" envconfig:"ENABLED"`
	Brokers        []string      `default:"kafka:9092" envconfig:"BROKERS"`
	Topic          string        `default:"order-requests" envconfig:"TOPIC"`
	ResultTopic    string        `default:"" envconfig:"RESULT_TOPIC"`
	GroupID        string        `default:"notify-gateway" envconfig:"GROUP_ID"`
	StartOffset    string        `default:"last" envconfig:"START_OFFSET"`
	ProcessTimeout time.Duration `default:"10s" envconfig:"PROCESS_TIMEOUT"`
	RetryInitial   time.Duration `default:"1s" envconfig:"RETRY_INITIAL"`
	RetryMax       time.Duration `default:"30s" envconfig:"RETRY_MAX"`
}

type Logger struct {
	IsProd bool `default:"false" envconfig:"IS_PROD"`
}

type Config struct {
	HTTP         HTTP
	Metrics      Metrics
	Tracing      Tracing
	Upstream     Upstream
	Maskinporten Maskinporten
	Orders       Orders
	Validation   Validation
	Recipients   Recipients
	Kafka        Kafka
	Logger       Logger
}

// Load — конфигурация из окружения с префиксом NOTIFY.
func Load() (Config, error) {
	return LoadWithPrefix(DefaultPrefix)
}

// LoadWithPrefix — то же, но с произвольным префиксом (нужно тестам).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}
