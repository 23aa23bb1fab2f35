package config

import "time"

// Config holds application configuration.
type Config struct {
	DataDir    string `env:"DATA_DIR" envDefault:"data"`
	ChartsPath string `env:"CHARTS_PATH" envDefault:"charts/charts.xlsx"`
	ReportPath string `env:"REPORT_PATH" envDefault:"REPORT.md"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Sources limits run to listed retailer slugs. Empty means all.
	Sources           []string `env:"SOURCES" envSeparator:","`
	ScrapeConcurrency int      `env:"SCRAPE_CONCURRENCY" envDefault:"6"`

	DatabaseURL string `env:"DATABASE_URL"`
	BatchSize   int    `env:"BATCH_SIZE" envDefault:"500"`

	HTTP     HTTP
	RabbitMQ RabbitMQ
}

// HTTP holds configuration of retailer requests.
type HTTP struct {
	Timeout           time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`
	UserAgent         string        `env:"USER_AGENT" envDefault:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND" envDefault:"8"`
	PageConcurrency   int           `env:"PAGE_CONCURRENCY" envDefault:"6"`
	ElitOptimalToken  string        `env:"ELITOPTIMAL_TOKEN"`
}

// RabbitMQ holds RabbitMQ configuration.
type RabbitMQ struct {
	URL        string `env:"RABBITMQ_URL"`
	Exchange   string `env:"RABBITMQ_EXCHANGE" envDefault:"az-phone-market"`
	RoutingKey string `env:"RABBITMQ_ROUTING_KEY" envDefault:"market.run.finished"`
}
