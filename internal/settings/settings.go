package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/cache"
	"github.com/prabhata303-del/Dd/internal/metrics"
	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/store"
)

const cacheKey = "settings"

// Defaults returns the configuration served when the settings record is
// missing or unreadable.
func Defaults() models.AppSettings {
	return models.AppSettings{
		StoreOpen:      true,
		DeliveryCharge: 30,
		MinOrderValue:  99,
	}
}

// rawSettings distinguishes absent fields from explicit zero values.
type rawSettings struct {
	StoreOpen      *bool    `json:"storeOpen"`
	DeliveryCharge *float64 `json:"deliveryCharge"`
	MinOrderValue  *float64 `json:"minOrderValue"`
	SupportPhone   string   `json:"supportPhone"`
	Notice         string   `json:"notice"`
}

func normalize(r rawSettings) models.AppSettings {
	s := Defaults()
	if r.StoreOpen != nil {
		s.StoreOpen = *r.StoreOpen
	}
	if r.DeliveryCharge != nil {
		s.DeliveryCharge = *r.DeliveryCharge
	}
	if r.MinOrderValue != nil {
		s.MinOrderValue = *r.MinOrderValue
	}
	s.SupportPhone = r.SupportPhone
	s.Notice = r.Notice
	return s
}

// Service serves the store-wide settings record. The read path never
// returns an error; failures degrade to Defaults with a log line.
type Service struct {
	store  store.RecordStore
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates a settings service. c may be nil to run uncached.
func NewService(rs store.RecordStore, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{store: rs, cache: c, ttl: ttl, logger: logger}
}

// Fetch returns the current settings, falling back to Defaults.
func (s *Service) Fetch(ctx context.Context) models.AppSettings {
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var r rawSettings
		if jsonErr := json.Unmarshal([]byte(cached), &r); jsonErr == nil {
			return normalize(r)
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("settings cache read failed", zap.Error(err))
	}

	var raw json.RawMessage
	if err := s.store.Get(ctx, store.SettingsPath, &raw); err != nil {
		s.logger.Warn("serving default settings", zap.Error(err))
		metrics.RecordFallback("settings")
		return Defaults()
	}
	if store.IsNull(raw) {
		return Defaults()
	}

	var r rawSettings
	if err := json.Unmarshal(raw, &r); err != nil {
		s.logger.Warn("undecodable settings record", zap.Error(err))
		return Defaults()
	}
	if err := s.cache.Set(ctx, cacheKey, string(raw), s.ttl); err != nil {
		s.logger.Warn("settings cache write failed", zap.Error(err))
	}
	return normalize(r)
}

// Watch delivers the settings after every change to the record. The caller
// must invoke the returned cancel func.
func (s *Service) Watch(ctx context.Context) (<-chan models.AppSettings, func(), error) {
	sub, err := s.store.Watch(ctx, store.SettingsPath)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan models.AppSettings, 1)
	go func() {
		defer close(out)
		for raw := range sub.Events() {
			next := Defaults()
			if !store.IsNull(raw) {
				var r rawSettings
				if err := json.Unmarshal(raw, &r); err != nil {
					s.logger.Warn("undecodable settings snapshot", zap.Error(err))
					continue
				}
				next = normalize(r)
			}
			select {
			case out <- next:
			default:
				select {
				case <-out:
				default:
				}
				out <- next
			}
		}
	}()
	return out, sub.Cancel, nil
}
