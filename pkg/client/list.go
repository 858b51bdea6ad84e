package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// getList fetches a collection that the backend returns either as a bare
// array or wrapped as {"<key>": [...]}. A missing key yields an empty result.
func (c *Client) getList(ctx context.Context, endpoint, key string, out any) error {
	var raw json.RawMessage
	if err := c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint}, &raw); err != nil {
		return err
	}
	if err := decodeList(raw, key, out); err != nil {
		return &MalformedResponseError{Status: http.StatusOK, Err: err}
	}
	return nil
}

func decodeList(raw []byte, key string, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	inner, ok := envelope[key]
	if !ok || bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		return nil
	}
	return json.Unmarshal(inner, out)
}
