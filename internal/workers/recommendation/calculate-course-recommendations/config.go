package calculatecourserecommendations

import "time"

type Config struct {
	Timeout         time.Duration
	DefaultLimit    int
	DefaultStrategy string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         15 * time.Second,
		DefaultLimit:    5,
		DefaultStrategy: "auto",
	}
}
