package vlist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// wsRequest is the frame WebSocketAdapter sends for each cursor page.
type wsRequest struct {
	Cursor string `json:"cursor"`
	Limit  int    `json:"limit"`
}

// wsResponse is the frame WebSocketAdapter expects back.
type wsResponse struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
	Total      int    `json:"total"`
}

// WebSocketAdapter is a reference Adapter backed by
// github.com/gorilla/websocket, exercising the cursor paging strategy over
// one persistent connection with JSON frames, as a blocking request/
// response per page since cursor paging is inherently one-at-a-time.
type WebSocketAdapter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// DialWebSocketAdapter connects to url and returns an adapter that issues
// one JSON request/response round-trip per Read call.
func DialWebSocketAdapter(url string) (*WebSocketAdapter, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket %s: %w", url, err)
	}
	return &WebSocketAdapter{conn: conn}, nil
}

// Close closes the underlying connection.
func (a *WebSocketAdapter) Close() error {
	return a.conn.Close()
}

// Read implements Adapter. Only StrategyCursor is supported; Collection
// never issues concurrent cursor reads, but the mutex here
// makes that invariant hold even if a caller violates it directly.
func (a *WebSocketAdapter) Read(ctx context.Context, params PageParams) (PageResult, error) {
	if params.Strategy != StrategyCursor {
		return PageResult{}, fmt.Errorf("%w: WebSocketAdapter only supports cursor paging", ErrAdapterFailed)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	req := wsRequest{Cursor: params.Cursor, Limit: params.Limit}
	payload, err := json.Marshal(req)
	if err != nil {
		return PageResult{}, fmt.Errorf("%w: %v", ErrAdapterFailed, err)
	}

	type result struct {
		resp wsResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		if err := a.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			done <- result{err: err}
			return
		}
		_, message, err := a.conn.ReadMessage()
		if err != nil {
			done <- result{err: err}
			return
		}
		var resp wsResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			done <- result{err: err}
			return
		}
		done <- result{resp: resp}
	}()

	select {
	case <-ctx.Done():
		return PageResult{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return PageResult{}, fmt.Errorf("%w: %v", ErrAdapterFailed, r.err)
		}
		return PageResult{
			Items: r.resp.Items,
			Meta: Meta{
				Total:      r.resp.Total,
				NextCursor: r.resp.NextCursor,
				HasMore:    r.resp.HasMore,
			},
		}, nil
	}
}
