package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Memory is an in-process RecordStore with the same path and watch
// semantics as the database-backed one. It serves tests and local
// development without credentials.
type Memory struct {
	mu      sync.Mutex
	doc     tree
	pushSeq uint64
	subSeq  uint64
	subs    map[uint64]*memorySub
}

type memorySub struct {
	path string
	sub  *Subscription
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{subs: make(map[uint64]*memorySub)}
}

// Seed loads a JSON document as the initial database contents.
func (s *Memory) Seed(raw json.RawMessage) error {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.put("", v)
	return nil
}

func (s *Memory) Get(_ context.Context, path string, dest interface{}) error {
	s.mu.Lock()
	raw := s.doc.marshal(path)
	s.mu.Unlock()
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

func (s *Memory) Set(_ context.Context, path string, value interface{}) error {
	v, err := toJSONValue(value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.put(path, v)
	s.notify(path)
	return nil
}

func (s *Memory) Update(_ context.Context, path string, fields map[string]interface{}) error {
	clean := make(map[string]interface{}, len(fields))
	for k, f := range fields {
		v, err := toJSONValue(f)
		if err != nil {
			return fmt.Errorf("update %s: %w", path, err)
		}
		clean[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.patch(path, clean)
	s.notify(path)
	return nil
}

func (s *Memory) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.put(path, nil)
	s.notify(path)
	return nil
}

func (s *Memory) Push(_ context.Context, path string, value interface{}) (string, error) {
	v, err := toJSONValue(value)
	if err != nil {
		return "", fmt.Errorf("push %s: %w", path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushSeq++
	key := fmt.Sprintf("-M%012d", s.pushSeq)
	s.doc.put(path+"/"+key, v)
	s.notify(path)
	return key, nil
}

func (s *Memory) Watch(ctx context.Context, path string) (*Subscription, error) {
	s.mu.Lock()
	s.subSeq++
	id := s.subSeq
	var sub *Subscription
	sub = newSubscription(func() {
		s.mu.Lock()
		if ms, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ms.sub.events)
		}
		s.mu.Unlock()
	})
	s.subs[id] = &memorySub{path: path, sub: sub}
	sub.send(s.doc.marshal(path))
	s.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Cancel()
		}()
	}
	return sub, nil
}

// notify fans the new value out to every subscription whose subtree
// overlaps the mutated path. Callers hold s.mu.
func (s *Memory) notify(path string) {
	for _, ms := range s.subs {
		if pathsOverlap(ms.path, path) {
			ms.sub.send(s.doc.marshal(ms.path))
		}
	}
}

func pathsOverlap(a, b string) bool {
	a = strings.Trim(a, "/")
	b = strings.Trim(b, "/")
	if a == "" || b == "" {
		return true
	}
	return a == b || strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

// toJSONValue round-trips a Go value through JSON so the tree only ever
// holds plain maps, slices, strings, float64s, bools and nils.
func toJSONValue(value interface{}) (interface{}, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
