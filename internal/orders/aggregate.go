package orders

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/store"
)

// placeholderDriverName is shown when a driver profile cannot be read.
const placeholderDriverName = "Delivery Partner"

func placeholderDriver(id string) models.Driver {
	return models.Driver{UID: id, Name: placeholderDriverName}
}

// aggregate builds the customer view of one batch of order records: keep
// the requesting user's orders, map statuses, join driver profiles for
// on-way orders and sort newest first. Driver lookups are deduplicated
// through a cache that lives only for this batch; each distinct driver id
// costs at most one backend read per call.
func (s *Service) aggregate(ctx context.Context, uid string, records map[string]models.Order) []models.CustomerOrder {
	result := make([]models.CustomerOrder, 0, len(records))
	wanted := make(map[string]struct{})
	for id, o := range records {
		if o.UID != uid {
			continue
		}
		if o.ID == "" {
			o.ID = id
		}
		co := models.CustomerOrder{Order: o, CustomerStatus: CustomerStatus(o.Status)}
		if co.CustomerStatus == StatusOnWay && o.DriverID != "" {
			wanted[o.DriverID] = struct{}{}
		}
		result = append(result, co)
	}

	drivers := s.fetchDrivers(ctx, wanted)
	for i := range result {
		if result[i].CustomerStatus == StatusOnWay && result[i].DriverID != "" {
			d := drivers[result[i].DriverID]
			result[i].Driver = &d
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp > result[j].Timestamp
		}
		return result[i].ID > result[j].ID
	})
	return result
}

// fetchDrivers resolves every distinct driver id concurrently and waits for
// the whole batch. The returned map is the per-batch cache; it is dropped
// when the aggregation returns.
func (s *Service) fetchDrivers(ctx context.Context, ids map[string]struct{}) map[string]models.Driver {
	out := make(map[string]models.Driver, len(ids))
	if len(ids) == 0 {
		return out
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			d := s.lookupDriver(ctx, id)
			mu.Lock()
			out[id] = d
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return out
}

// lookupDriver reads one driver profile. Any failure yields the placeholder
// driver; order tracking never breaks on a missing profile.
func (s *Service) lookupDriver(ctx context.Context, id string) models.Driver {
	var raw json.RawMessage
	if err := s.store.Get(ctx, store.DriverPath(id), &raw); err != nil {
		s.logger.Warn("driver lookup failed", zap.String("driverId", id), zap.Error(err))
		return placeholderDriver(id)
	}
	if store.IsNull(raw) {
		s.logger.Warn("driver record missing", zap.String("driverId", id))
		return placeholderDriver(id)
	}

	var d models.Driver
	if err := json.Unmarshal(raw, &d); err != nil {
		s.logger.Warn("undecodable driver record", zap.String("driverId", id), zap.Error(err))
		return placeholderDriver(id)
	}
	if d.UID == "" {
		d.UID = id
	}
	if d.Name == "" {
		d.Name = placeholderDriverName
	}
	return d
}
