package rankcourserecommendations

import "time"

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		DefaultLimit: 5,
		MaxLimit:     50,
	}
}
