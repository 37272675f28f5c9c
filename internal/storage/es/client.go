package es

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// ClientConfig addresses one index on a cluster. Basic auth is used only
// when both Username and Password are set.
type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

func NewClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	if len(config.Addresses) == 0 {
		return nil, fmt.Errorf("no elasticsearch addresses")
	}

	cfg := elasticsearch.Config{Addresses: config.Addresses}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}
