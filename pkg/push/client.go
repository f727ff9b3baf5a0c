package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/topicmaps/pkg/errors"
)

// HeaderClientID carries the client id when connecting.
const HeaderClientID = "X-Client-Id"

const closeTimeout = time.Second

// Client reads push messages from a websocket.
type Client struct {
	URL      string
	ClientID string
	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
	// OnConnect, if set, is called once the connection is open.
	OnConnect func()
	Logger    *log.Logger
}

// Run connects and forwards every message to out until the server closes
// the connection or ctx is done. A normal close returns nil.
func (c *Client) Run(ctx context.Context, out chan<- Message) error {
	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}

	hdr := http.Header{}
	if c.ClientID != "" {
		hdr.Set(HeaderClientID, c.ClientID)
	}
	wc, _, err := dialer.DialContext(ctx, c.URL, hdr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "connect push channel %s", c.URL)
	}
	defer wc.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = wc.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
			_ = wc.Close()
		case <-done:
		}
	}()

	logger.Debug("push channel connected", "url", c.URL)
	if c.OnConnect != nil {
		c.OnConnect()
	}

	for {
		op, data, err := wc.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.Wrap(errors.ErrCodeNetwork, err, "read push channel")
		}
		if op != websocket.TextMessage {
			continue
		}
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			logger.Warn("dropping malformed push message", "err", err)
			continue
		}
		select {
		case out <- m:
		case <-ctx.Done():
			return nil
		}
	}
}

// URLFor derives the push endpoint from a REST base URL:
// http becomes ws, https becomes wss, and the path is /ws.
func URLFor(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %q", baseURL)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "cannot derive push URL from %q", baseURL)
	}
	u.Path += "/ws"
	return u.String(), nil
}
