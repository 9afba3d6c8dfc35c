package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	FlagAddress       string
	FlagBaseAddress   string
	FlagFilePath      string
	DataBaseDSN       string
	SQLitePath        string
	GRPCAddress       string
	EnableHTTPS       bool
	TLSHosts          []string
	SecretKey         string
	LogLevel          string
	RateLimit         float64
	SessionTTL        time.Duration
	RevealDelay       time.Duration
	AnimationDuration time.Duration
	AnimationInterval time.Duration

	// адрес анализа задан явно флагом или окружением
	baseSet bool
}

// Default значения по умолчанию, без флагов и окружения
func Default() *Config {
	currentDir, _ := os.Getwd()
	return &Config{
		FlagAddress:       ":8080",
		FlagBaseAddress:   "http://localhost:8080",
		FlagFilePath:      fmt.Sprint(currentDir, "/tmp/review-visits.json"),
		GRPCAddress:       ":3200",
		SecretKey:         "secret",
		LogLevel:          "info",
		RateLimit:         20,
		SessionTTL:        30 * time.Minute,
		RevealDelay:       1500 * time.Millisecond,
		AnimationDuration: 1500 * time.Millisecond,
		AnimationInterval: 10 * time.Millisecond,
	}
}

func NewConfig() (c *Config) {
	// .env может отсутствовать
	_ = godotenv.Load()
	c = Default()
	c.DataBaseDSN = os.Getenv("DATABASE_DSN")

	flag.StringVar(&c.FlagAddress, "a", c.FlagAddress, "set server IP address")
	flag.Func("b", "base URL of the analyze backend", func(flagValue string) error {
		v, err := normalizeBase(flagValue)
		if err != nil {
			return err
		}
		c.FlagBaseAddress = v
		c.baseSet = true
		return nil
	})
	flag.StringVar(&c.FlagFilePath, "f", c.FlagFilePath, "set file path")
	flag.StringVar(&c.DataBaseDSN, "d", c.DataBaseDSN, "Database connection string")
	flag.StringVar(&c.SQLitePath, "q", c.SQLitePath, "SQLite database directory")
	flag.StringVar(&c.GRPCAddress, "g", c.GRPCAddress, "gRPC health address")
	flag.BoolVar(&c.EnableHTTPS, "s", c.EnableHTTPS, "enable HTTPS")
	flag.Func("hosts", "comma separated domains for HTTPS certificates", func(flagValue string) error {
		c.TLSHosts = splitHosts(flagValue)
		return nil
	})
	flag.StringVar(&c.SecretKey, "k", c.SecretKey, "cookie signing key")
	flag.StringVar(&c.LogLevel, "l", c.LogLevel, "log level")
	flag.Float64Var(&c.RateLimit, "r", c.RateLimit, "requests per second for submit endpoints")
	flag.DurationVar(&c.SessionTTL, "t", c.SessionTTL, "idle session lifetime")
	flag.DurationVar(&c.RevealDelay, "reveal", c.RevealDelay, "delay before the verdict is revealed")
	flag.DurationVar(&c.AnimationDuration, "anim", c.AnimationDuration, "accuracy animation duration")
	flag.DurationVar(&c.AnimationInterval, "tick", c.AnimationInterval, "accuracy animation tick")
	flag.Parse()

	c.applyEnv()
	c.resolveBase()
	return c
}

// resolveBase без явного BASE_URL анализ идет на адрес, который слушает сам сервер
func (c *Config) resolveBase() {
	if c.baseSet {
		return
	}
	if c.EnableHTTPS {
		host := "localhost"
		if len(c.TLSHosts) > 0 {
			host = c.TLSHosts[0]
		}
		c.FlagBaseAddress = "https://" + host
		return
	}
	host, port, err := net.SplitHostPort(c.FlagAddress)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	c.FlagBaseAddress = "http://" + net.JoinHostPort(host, port)
}

func splitHosts(v string) []string {
	var hosts []string
	for _, h := range strings.Split(v, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func (c *Config) applyEnv() {
	if envRunAddr := os.Getenv("SERVER_ADDRESS"); envRunAddr != "" {
		c.FlagAddress = envRunAddr
	}
	if envBaseAddr := os.Getenv("BASE_URL"); envBaseAddr != "" {
		if v, err := normalizeBase(envBaseAddr); err == nil {
			c.FlagBaseAddress = v
			c.baseSet = true
		}
	}
	//может быть ""
	if envFilePath, ok := os.LookupEnv("FILE_STORAGE_PATH"); ok {
		c.FlagFilePath = envFilePath
	}
	if dataBaseDSN, ok := os.LookupEnv("DATABASE_DSN"); ok {
		c.DataBaseDSN = dataBaseDSN
	}
	if sqlitePath, ok := os.LookupEnv("SQLITE_PATH"); ok {
		c.SQLitePath = sqlitePath
	}
	if grpcAddr := os.Getenv("GRPC_ADDRESS"); grpcAddr != "" {
		c.GRPCAddress = grpcAddr
	}
	if https := os.Getenv("ENABLE_HTTPS"); https != "" {
		c.EnableHTTPS, _ = strconv.ParseBool(https)
	}
	if hosts := os.Getenv("TLS_HOSTS"); hosts != "" {
		c.TLSHosts = splitHosts(hosts)
	}
	if key := os.Getenv("SECRET_KEY"); key != "" {
		c.SecretKey = key
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.LogLevel = lvl
	}
	if rl := os.Getenv("RATE_LIMIT"); rl != "" {
		if v, err := strconv.ParseFloat(rl, 64); err == nil {
			c.RateLimit = v
		}
	}
	envDuration("SESSION_TTL", &c.SessionTTL)
	envDuration("REVEAL_DELAY", &c.RevealDelay)
	envDuration("ANIMATION_DURATION", &c.AnimationDuration)
	envDuration("ANIMATION_INTERVAL", &c.AnimationInterval)
}

func envDuration(name string, dst *time.Duration) {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func normalizeBase(flagValue string) (string, error) {
	hp := strings.Split(flagValue, ":")
	if len(hp) < 2 {
		return "", errors.New("need address in a form host:port")
	}
	if hp[0] == "http" || hp[0] == "https" {
		return flagValue, nil
	}
	return fmt.Sprint("http://", flagValue), nil
}
