package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/metrics"
)

var errStreamCancelled = errors.New("stream cancelled by server")

// Streamer opens change streams against the Realtime Database REST API.
// The server speaks server-sent events: an initial put with the full value
// at the watched path, then incremental put and patch frames. The streamer
// applies frames to a local copy of the subtree and emits the updated value
// after each one, which gives subscribers value semantics.
type Streamer struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewStreamer builds a streamer for the given database URL. The HTTP client
// must attach credentials (see firebase.Init); pass http.DefaultClient only
// against databases with open read rules or local emulators.
func NewStreamer(databaseURL string, client *http.Client, logger *zap.Logger) *Streamer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Streamer{
		baseURL: strings.TrimRight(databaseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// Watch starts a stream for path. The subscription receives the current
// value first, then one snapshot per change. The stream reconnects with
// capped backoff until the context ends or Cancel is called.
func (s *Streamer) Watch(ctx context.Context, path string) (*Subscription, error) {
	if s.baseURL == "" {
		return nil, errors.New("streamer: database URL not configured")
	}
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)
	go s.run(ctx, path, sub)
	return sub, nil
}

func (s *Streamer) run(ctx context.Context, path string, sub *Subscription) {
	defer close(sub.events)

	var doc tree
	backoff := time.Second
	for {
		connectedAt := time.Now()
		err := s.stream(ctx, path, &doc, sub)
		if ctx.Err() != nil {
			return
		}
		// A connection that survived a while earns a fresh backoff.
		if time.Since(connectedAt) > 30*time.Second {
			backoff = time.Second
		}
		metrics.RecordStreamReconnect()
		s.logger.Warn("stream disconnected, reconnecting",
			zap.String("path", path),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (s *Streamer) stream(ctx context.Context, path string, doc *tree, sub *Subscription) error {
	url := s.baseURL + "/" + strings.Trim(path, "/") + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("stream %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "":
			if event != "" {
				if err := s.apply(event, data, doc, sub); err != nil {
					return err
				}
			}
			event, data = "", ""
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

func (s *Streamer) apply(event, data string, doc *tree, sub *Subscription) error {
	switch event {
	case "put":
		frame := gjson.Parse(data)
		doc.put(frame.Get("path").String(), frame.Get("data").Value())
		sub.send(doc.marshal(""))
	case "patch":
		frame := gjson.Parse(data)
		fields := make(map[string]interface{})
		for k, v := range frame.Get("data").Map() {
			fields[k] = v.Value()
		}
		doc.patch(strings.Trim(frame.Get("path").String(), "/"), fields)
		sub.send(doc.marshal(""))
	case "keep-alive":
	case "cancel":
		return errStreamCancelled
	case "auth_revoked":
		// Reconnecting picks up a fresh token from the client transport.
		return errors.New("stream credentials expired")
	}
	return nil
}
