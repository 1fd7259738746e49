// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"net/http"

	"airport-query-engine/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchClient holds the search client and the stand index it serves.
type ElasticsearchClient struct {
	Client     *elasticsearch.Client
	StandIndex string
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch addresses are empty")
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es, StandIndex: cfg.StandIndex}, nil
}

// Ping checks the cluster answers and, when one is configured, that the
// stand index exists. A cluster without the index cannot serve stand search.
func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}

	if c.StandIndex == "" {
		return nil
	}
	res, err = c.Client.Indices.Exists([]string{c.StandIndex}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("stand index %q: %w", c.StandIndex, err)
	}
	res.Body.Close()
	switch {
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("stand index %q does not exist", c.StandIndex)
	case res.IsError():
		return fmt.Errorf("stand index %q: %s", c.StandIndex, res.Status())
	}
	return nil
}
