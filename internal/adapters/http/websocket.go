package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/trailhead/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "activities" | "orders" | "all" (default: activities)
}

// wsEvent wraps a relayed message with the subject it was published on.
type wsEvent struct {
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}

var wsChannels = map[string]string{
	"activities": "trailhead.activity.>",
	"orders":     "trailhead.order.>",
	"all":        "trailhead.>",
}

// WebSocketHandler relays NATS events to connected clients. New connections receive
// activity events; clients send {"action":"subscribe","channel":"orders"} for more.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // channel -> subscription

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		relay := func(msg *nats.Msg) {
			_ = writeJSON(wsEvent{Subject: msg.Subject, Data: json.RawMessage(msg.Data)})
		}

		sub, err := nc.Subscribe(wsChannels["activities"], relay)
		if err != nil {
			slog.Error("ws default subscribe failed", "error", err)
			return
		}
		subs["activities"] = sub

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			channel := m.Channel
			if channel == "" {
				channel = "activities"
			}
			subject, ok := wsChannels[channel]
			if !ok {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[channel]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "channel": channel})
					continue
				}
				s, err := nc.Subscribe(subject, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[channel] = s
				_ = writeJSON(map[string]string{"status": "subscribed", "channel": channel})

			case "unsubscribe":
				s, exists := subs[channel]
				if !exists {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + channel})
					continue
				}
				_ = s.Unsubscribe()
				delete(subs, channel)
				_ = writeJSON(map[string]string{"status": "unsubscribed", "channel": channel})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
