package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	maxErrorBody   = 1 << 20  // 1 MB
	maxSuccessBody = 16 << 20 // 16 MB
)

// Request describes one call to the API.
type Request struct {
	Method   string
	Endpoint string // path relative to the base URL, may carry a query string
	Body     any    // JSON-encoded when non-nil
	Header   http.Header

	// authExchange requests (login, refresh) report a 401 as an ordinary
	// *APIError instead of entering the refresh path.
	authExchange bool
}

// execute issues req once. On success it returns the raw JSON body, with an
// empty body reported as "{}". A 401 is reported as errUnauthorized when
// retry is set and as ErrSessionExpired otherwise. The session store is only
// read, never written.
func (c *Client) execute(ctx context.Context, req Request, reqID string, retry bool) ([]byte, int, error) {
	var reqBody io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Endpoint, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", reqID)
	for k, vs := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(k)] = vs
	}
	if sess := c.readSession(ctx); sess != nil {
		httpReq.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debugw("api response", "request_id", reqID, "method", method, "endpoint", req.Endpoint, "status", resp.StatusCode, "retry", retry)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxSuccessBody))
		if err != nil {
			return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
		}
		body = bytes.TrimSpace(body)
		if len(body) == 0 {
			return []byte("{}"), resp.StatusCode, nil
		}
		if !json.Valid(body) {
			return nil, resp.StatusCode, &MalformedResponseError{Status: resp.StatusCode, Err: errors.New("invalid JSON body")}
		}
		return body, resp.StatusCode, nil
	}

	if resp.StatusCode == http.StatusUnauthorized && !req.authExchange {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // drain for connection reuse
		if retry {
			return nil, resp.StatusCode, errUnauthorized
		}
		return nil, resp.StatusCode, ErrSessionExpired
	}

	return nil, resp.StatusCode, parseAPIError(resp)
}

// parseAPIError builds an *APIError from a non-2xx response, preferring the
// body's "message" field, then "error".
func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
	}
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Code    string `json:"code"`
	}
	if json.Unmarshal(respBody, &body) == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error != "":
			apiErr.Message = body.Error
		}
		apiErr.Code = body.Code
	}
	return apiErr
}
