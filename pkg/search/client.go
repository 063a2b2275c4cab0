// Package search talks to the search cluster: bulk ingestion of parsed
// protocol paragraphs and the speaker listing queries on top of the
// resulting index.
package search

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type ClientConfig struct {
	URL                string
	Index              string
	Username           string
	Password           string
	InsecureSkipVerify bool
	BatchSize          int
	Timeout            time.Duration
}

type Client struct {
	config ClientConfig
	http   *resty.Client
}

func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("search cluster URL is required")
	}
	if config.Index == "" {
		return nil, fmt.Errorf("search index name is required")
	}
	if config.BatchSize == 0 {
		config.BatchSize = 500
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(config.URL)
	client.SetTimeout(config.Timeout)
	if config.Username != "" {
		client.SetBasicAuth(config.Username, config.Password)
	}
	if config.InsecureSkipVerify {
		// Self-signed certificates on the local cluster
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &Client{
		config: config,
		http:   client,
	}, nil
}
