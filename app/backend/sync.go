package backend

import (
	"context"
	"net/http"
)

// SyncResult reports the outcome of a backend reconciliation run
type SyncResult struct {
	LastSync string `json:"lastSync"`
}

// SyncData asks the backend to reconcile its data sources. Only the sync
// timestamp is normalized out of the response; a missing one becomes the
// current time like any other timestamp field.
func (c *Client) SyncData(ctx context.Context) (SyncResult, error) {
	payload, apiErr := c.do(ctx, http.MethodPost, "/api/sync", nil)
	if apiErr != nil {
		return SyncResult{}, apiErr
	}
	m := asMap(payload)
	return SyncResult{
		LastSync: pickTimestamp(m, "lastSync", "last_sync"),
	}, nil
}
