package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ivanbaha/opensearch-demo/core"
)

// BulkItemError describes one rejected document in a bulk request.
type BulkItemError struct {
	ID     string
	Status int
	Reason string
}

// BulkResult summarizes a bulk indexing round. Re-indexing an already
// present document counts as updated, not an error.
type BulkResult struct {
	Created int
	Updated int
	Failed  []BulkItemError
}

type bulkActionMeta struct {
	ID string `json:"_id"`
}

type bulkAction struct {
	Index bulkActionMeta `json:"index"`
}

type bulkItemDetail struct {
	ID     string `json:"_id"`
	Result string `json:"result"`
	Status int    `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

type bulkResponse struct {
	Took   int  `json:"took"`
	Errors bool `json:"errors"`
	Items  []struct {
		Index bulkItemDetail `json:"index"`
	} `json:"items"`
}

// BulkIndexPapers indexes a batch of papers in one request, keyed by
// paper id so the operation is an upsert. Per-document rejections are
// reported in the result, not as an error; the error return covers the
// request as a whole.
func (c *Client) BulkIndexPapers(ctx context.Context, name string, papers []*core.IndexedPaper) (*BulkResult, error) {
	if len(papers) == 0 {
		return &BulkResult{}, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, paper := range papers {
		if paper.Id == "" {
			return nil, fmt.Errorf("%w: paper has no id", core.ErrEmptyKey)
		}
		if err := enc.Encode(bulkAction{Index: bulkActionMeta{ID: paper.Id}}); err != nil {
			return nil, fmt.Errorf("failed to encode bulk action: %w", err)
		}
		if err := enc.Encode(paper); err != nil {
			return nil, fmt.Errorf("failed to encode paper %s: %w", paper.Id, err)
		}
	}

	raw, err := c.Bulk(ctx, name, buf.Bytes())
	if err != nil {
		return nil, err
	}

	var resp bulkResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	result := &BulkResult{}
	for _, item := range resp.Items {
		detail := item.Index
		switch {
		case detail.Status >= 200 && detail.Status < 300 && detail.Result == "created":
			result.Created++
		case detail.Status >= 200 && detail.Status < 300:
			result.Updated++
		default:
			reason := "unknown"
			if detail.Error != nil {
				reason = detail.Error.Reason
			}
			c.logger.Warn("document rejected by bulk indexing",
				"id", detail.ID, "status", detail.Status, "reason", reason)
			result.Failed = append(result.Failed, BulkItemError{
				ID:     detail.ID,
				Status: detail.Status,
				Reason: reason,
			})
		}
	}
	return result, nil
}

// EnsureIndex creates the paper index if it does not exist yet.
func (c *Client) EnsureIndex(ctx context.Context, name string) error {
	exists, err := c.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", name, err)
	}
	if exists {
		return nil
	}
	return c.CreateIndex(ctx, name, PaperIndexMapping())
}
