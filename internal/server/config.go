package server

import (
	"fmt"
	"strconv"

	"github.com/DjordjeVuckovic/rerank-eval/pkg/config/env"
	"github.com/DjordjeVuckovic/rerank-eval/pkg/utils"
)

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
}

// LoadConfig reads PORT, USE_HTTP2 and CORS_ORIGINS from the environment.
func LoadConfig() (*Config, error) {
	port := env.String("PORT", "8080")
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := utils.SplitTrimmed(env.String("CORS_ORIGINS", ""), ",")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Config{
		Port:        port,
		UseHttp2:    env.Bool("USE_HTTP2", false),
		CorsOrigins: origins,
	}, nil
}

func validatePort(port string) error {
	n, err := strconv.ParseUint(port, 10, 16)
	if err != nil || n == 0 {
		return fmt.Errorf("%q is not a port in 1-65535", port)
	}
	return nil
}
