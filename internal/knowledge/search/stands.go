// Package search queries the elasticsearch stand index.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"airport-query-engine/internal/models"
)

const defaultSize = 20

// StandIndex searches stand documents. Each document is the JSON form of
// models.Stand plus a geo_point "location" field.
type StandIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewStandIndex(client *elasticsearch.Client, index string) *StandIndex {
	return &StandIndex{client: client, index: index}
}

func (s *StandIndex) SearchStands(ctx context.Context, text string, limit int) ([]models.Stand, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":     text,
							"fields":    []string{"name^3", "terminal^2", "pier", "sizeCategory"},
							"fuzziness": "AUTO",
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"isActive": true}},
				},
			},
		},
		"size": size(limit),
	}
	return s.search(ctx, body)
}

func (s *StandIndex) StandsNear(ctx context.Context, lat, lon, radiusM float64, limit int) ([]models.Stand, error) {
	point := map[string]interface{}{"lat": lat, "lon": lon}
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"geo_distance": map[string]interface{}{
							"distance": fmt.Sprintf("%.0fm", radiusM),
							"location": point,
						},
					},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{
				"_geo_distance": map[string]interface{}{
					"location": point,
					"order":    "asc",
					"unit":     "m",
				},
			},
		},
		"size": size(limit),
	}
	return s.search(ctx, body)
}

func (s *StandIndex) search(ctx context.Context, query map[string]interface{}) ([]models.Stand, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search stands: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search stands failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Stand `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	stands := make([]models.Stand, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		stands = append(stands, hit.Source)
	}
	return stands, nil
}

func size(limit int) int {
	if limit <= 0 {
		return defaultSize
	}
	return limit
}
