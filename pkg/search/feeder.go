package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/xhad/plenum/internal/models"
)

// FeedResult summarizes one bulk feed run.
type FeedResult struct {
	Indexed int
	Failed  int
}

// bulkDocument is one search document: a paragraph with the session
// metadata of its protocol merged in.
type bulkDocument struct {
	models.Paragraph
	Period  int    `json:"protocol_period"`
	Index   int    `json:"protocol_index"`
	Date    string `json:"protocol_date,omitempty"`
	Session int    `json:"protocol_session,omitempty"`
}

// DocumentID returns the search document id of one paragraph. Repeated
// feeds reuse the id, so re-feeding a protocol overwrites in place.
func DocumentID(period, index, flowIndex int) string {
	return fmt.Sprintf("p-%d-%d-%d", period, index, flowIndex)
}

// FeedProtocol bulk-indexes all paragraphs of one parsed protocol, one
// request per batch. Item-level errors are counted; a failed request
// aborts the feed.
func (c *Client) FeedProtocol(ctx context.Context, protocol models.Protocol) (FeedResult, error) {
	var result FeedResult

	for start := 0; start < len(protocol.Content); start += c.config.BatchSize {
		end := start + c.config.BatchSize
		if end > len(protocol.Content) {
			end = len(protocol.Content)
		}

		indexed, failed, err := c.bulk(ctx, protocol, protocol.Content[start:end])
		if err != nil {
			return result, err
		}
		result.Indexed += indexed
		result.Failed += failed
	}

	return result, nil
}

func (c *Client) bulk(ctx context.Context, protocol models.Protocol, paragraphs []models.Paragraph) (indexed, failed int, err error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, paragraph := range paragraphs {
		action := map[string]any{
			"index": map[string]any{
				"_index": c.config.Index,
				"_id":    DocumentID(protocol.Period, protocol.Index, paragraph.FlowIndex),
			},
		}
		if err := enc.Encode(action); err != nil {
			return 0, 0, err
		}
		doc := bulkDocument{
			Paragraph: paragraph,
			Period:    protocol.Period,
			Index:     protocol.Index,
			Date:      protocol.Date,
			Session:   protocol.Session,
		}
		if err := enc.Encode(doc); err != nil {
			return 0, 0, err
		}
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-ndjson").
		SetBody(buf.Bytes()).
		Post("/_bulk")
	if err != nil {
		return 0, 0, err
	}
	if !res.IsSuccess() {
		return 0, 0, fmt.Errorf("bulk request failed: status %d: %s", res.StatusCode(), res.Body())
	}

	var body struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  any    `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return 0, 0, fmt.Errorf("failed to decode bulk response: %v", err)
	}

	for _, item := range body.Items {
		if item.Index.Status >= 300 {
			failed++
		} else {
			indexed++
		}
	}
	return indexed, failed, nil
}
