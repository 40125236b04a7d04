package store

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/db"
)

// RTDB is the Realtime Database backed RecordStore. Reads and writes go
// through the admin SDK; change streams go through the REST streamer, which
// the SDK does not cover.
type RTDB struct {
	client   *db.Client
	streamer *Streamer
}

// NewRTDB wraps a database client. streamer may be nil when streaming is
// not configured; Watch then fails cleanly.
func NewRTDB(client *db.Client, streamer *Streamer) *RTDB {
	return &RTDB{client: client, streamer: streamer}
}

func (s *RTDB) Get(ctx context.Context, path string, dest interface{}) error {
	if err := s.client.NewRef(path).Get(ctx, dest); err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

func (s *RTDB) Set(ctx context.Context, path string, value interface{}) error {
	if err := s.client.NewRef(path).Set(ctx, value); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (s *RTDB) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	if err := s.client.NewRef(path).Update(ctx, fields); err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	return nil
}

func (s *RTDB) Delete(ctx context.Context, path string) error {
	if err := s.client.NewRef(path).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (s *RTDB) Push(ctx context.Context, path string, value interface{}) (string, error) {
	ref, err := s.client.NewRef(path).Push(ctx, value)
	if err != nil {
		return "", fmt.Errorf("push %s: %w", path, err)
	}
	return ref.Key, nil
}

func (s *RTDB) Watch(ctx context.Context, path string) (*Subscription, error) {
	if s.streamer == nil {
		return nil, errors.New("rtdb: streaming not configured")
	}
	return s.streamer.Watch(ctx, path)
}
