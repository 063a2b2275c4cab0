package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xhad/plenum/internal/models"
)

// Speaker is one distinct speaker found in the index, with the protocol
// coordinates of the collapsed hit.
type Speaker struct {
	Name      string `json:"speaker_name"`
	Party     string `json:"speaker_party"`
	Role      string `json:"speaker_role"`
	RoleDescr string `json:"speaker_role_descr"`
	Period    int    `json:"protocol_period"`
	Index     int    `json:"protocol_index"`
}

// Speakers lists the distinct speakers in the index, one hit per name.
// With presidentsOnly, only presidents and vice-presidents are returned.
func (c *Client) Speakers(ctx context.Context, presidentsOnly bool) ([]Speaker, error) {
	var query map[string]any
	if presidentsOnly {
		query = map[string]any{
			"terms": map[string]any{
				"speaker_role": []string{models.RolePresident, models.RoleVicePresident},
			},
		}
	} else {
		query = map[string]any{"match_all": map[string]any{}}
	}

	body := map[string]any{
		"size":  10000,
		"query": query,
		"collapse": map[string]any{
			"field": "speaker_name.keyword",
		},
		"_source": []string{
			"speaker_name", "speaker_party", "speaker_role",
			"speaker_role_descr", "protocol_period", "protocol_index",
		},
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(fmt.Sprintf("/%s/_search", c.config.Index))
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("search request failed: status %d: %s", res.StatusCode(), res.Body())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source Speaker `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(res.Body(), &response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %v", err)
	}

	speakers := make([]Speaker, 0, len(response.Hits.Hits))
	for _, hit := range response.Hits.Hits {
		speakers = append(speakers, hit.Source)
	}
	sort.Slice(speakers, func(i, j int) bool {
		return speakers[i].Name < speakers[j].Name
	})
	return speakers, nil
}
