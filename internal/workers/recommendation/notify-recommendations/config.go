package notifyrecommendations

import "time"

type Config struct {
	EmailEnabled      bool
	SMSEnabled        bool
	PriorityThreshold string
	MaxCourses        int
	// RetryOnFailure fails the job with retries instead of completing it
	// with status "failed" when a channel rejects the message.
	RetryOnFailure bool
	Timeout        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		PriorityThreshold: PriorityHigh,
		MaxCourses:        5,
		Timeout:           30 * time.Second,
	}
}
