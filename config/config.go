package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ServerAddr string

	GridSize     int
	TickInterval time.Duration
	StartX       int
	StartY       int

	SendBufferSize int
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
	AllowedOrigins []string

	RateLimit float64
	RateBurst int
}

func LoadConfig() *Config {
	gridSize := getEnvInt("GRID_SIZE", 20)

	return &Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":8000"),
		GridSize:       gridSize,
		TickInterval:   getEnvDuration("TICK_INTERVAL", 200*time.Millisecond),
		StartX:         getEnvInt("START_X", gridSize/2),
		StartY:         getEnvInt("START_Y", gridSize/2),
		SendBufferSize: getEnvInt("SEND_BUFFER", 256),
		WriteWait:      getEnvDuration("WRITE_WAIT", 10*time.Second),
		PongWait:       getEnvDuration("PONG_WAIT", 60*time.Second),
		MaxMessageSize: int64(getEnvInt("MAX_MESSAGE_SIZE", 512)),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		RateLimit:      getEnvFloat("RATE_LIMIT", 5),
		RateBurst:      getEnvInt("RATE_BURST", 10),
	}
}

// Validate reports every out-of-range value at once.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfig}, args...)...))
	}

	if c.GridSize < 3 {
		invalid("GRID_SIZE must be at least 3, got %d", c.GridSize)
	}
	if c.TickInterval <= 0 {
		invalid("TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.StartX < 0 || c.StartX >= c.GridSize || c.StartY < 0 || c.StartY >= c.GridSize {
		invalid("start cell (%d,%d) is outside a %dx%d grid", c.StartX, c.StartY, c.GridSize, c.GridSize)
	}
	if c.SendBufferSize <= 0 {
		invalid("SEND_BUFFER must be positive, got %d", c.SendBufferSize)
	}
	if c.WriteWait <= 0 {
		invalid("WRITE_WAIT must be positive, got %s", c.WriteWait)
	}
	if c.PongWait <= 0 {
		invalid("PONG_WAIT must be positive, got %s", c.PongWait)
	}
	if c.MaxMessageSize <= 0 {
		invalid("MAX_MESSAGE_SIZE must be positive, got %d", c.MaxMessageSize)
	}
	if c.RateLimit <= 0 {
		invalid("RATE_LIMIT must be positive, got %g", c.RateLimit)
	}
	if c.RateBurst <= 0 {
		invalid("RATE_BURST must be positive, got %d", c.RateBurst)
	}

	return errors.Join(errs...)
}

// OriginAllowed reports whether a websocket handshake from origin may proceed.
// An empty allow list accepts every origin.
func (c *Config) OriginAllowed(origin string) bool {
	if len(c.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// getEnv reads an environment variable and returns its value or a default value
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = defaultValue
		log.Printf("Environment variable %s not set, using default value: %s", key, defaultValue)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("Environment variable %s=%q is not an integer, using default value: %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := getEnv(key, strconv.FormatFloat(defaultValue, 'g', -1, 64))
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		log.Printf("Environment variable %s=%q is not a number, using default value: %g", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, defaultValue.String())
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("Environment variable %s=%q is not a duration, using default value: %s", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
