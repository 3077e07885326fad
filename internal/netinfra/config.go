package netinfra

import (
	"errors"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds the connection settings for the remote plant service.
type Config struct {
	// BaseURL is the root of the plant service API, without a trailing
	// slash, e.g. "https://plants.example.com/api/v1".
	BaseURL string `env:"BASE_URL"`

	// Timeout bounds each request, including connection setup and reading
	// the body.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// DefaultConfig returns settings with the default request timeout.
// BaseURL has no default and must be provided.
func DefaultConfig() Config {
	return Config{Timeout: 10 * time.Second}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

func httpURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use the http or https scheme")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}
