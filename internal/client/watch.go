package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/sudo-init-do/rentaskill/internal/realtime"
)

// Collections each server event makes stale.
var eventInvalidates = map[string][]string{
	realtime.EventTaskCreated:        {collTasks},
	realtime.EventTaskUpdated:        {collTasks},
	realtime.EventTransactionCreated: {collTransactions, collUsers, collProviders},
	realtime.EventWithdrawalCreated:  {collUsers, collProviders},
}

// Watch subscribes to the server's change feed and invalidates cached reads
// as events arrive. fn, when non-nil, sees every event after invalidation.
// Watch blocks until ctx is cancelled or the connection fails.
func (c *Client) Watch(ctx context.Context, fn func(realtime.Event)) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws"
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read feed: %w", err)
		}
		var evt realtime.Event
		if err := json.Unmarshal(msg, &evt); err != nil {
			continue
		}
		if colls, ok := eventInvalidates[evt.Type]; ok {
			c.Invalidate(colls...)
		}
		if fn != nil {
			fn(evt)
		}
	}
}
