// Package scheduler keeps the cache warm for configured locations so
// interactive requests hit fresh entries instead of slow providers.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/geofacts/geofacts/internal/geo"
	"github.com/geofacts/geofacts/internal/resolve"
)

// TTLs carries the per-capability cache lifetimes warm jobs write with.
type TTLs struct {
	Address   time.Duration
	Weather   time.Duration
	Elevation time.Duration
}

// Scheduler periodically resolves configured locations to refresh the cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	resolver  *resolve.Resolver
	locations []geo.Coordinate
	interval  time.Duration
	ttls      TTLs
}

// New creates a new Scheduler.
func New(locations []geo.Coordinate, interval time.Duration, ttls TTLs, resolver *resolve.Resolver) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		resolver:  resolver,
		locations: locations,
		interval:  interval,
		ttls:      ttls,
	}
}

// Start schedules the periodic warm job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("scheduler: no warm locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running cache warm job")

		var wg sync.WaitGroup
		for _, loc := range s.locations {
			loc := loc
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				s.warm(ctx, loc)
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed cache warm job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// warm refreshes each cacheable capability for one location. Weather is the
// short-lived entry; address and elevation piggyback on the same pass.
func (s *Scheduler) warm(ctx context.Context, loc geo.Coordinate) {
	if s.ttls.Weather > 0 {
		if _, err := s.resolver.ResolveConditions(ctx, loc, resolve.Options{CacheTTL: s.ttls.Weather}); err != nil {
			log.Printf("scheduler: weather warm failed for %s: %v", loc.Key(), err)
		}
	}
	if s.ttls.Address > 0 {
		if _, err := s.resolver.ResolveAddress(ctx, loc, resolve.Options{CacheTTL: s.ttls.Address}); err != nil {
			log.Printf("scheduler: address warm failed for %s: %v", loc.Key(), err)
		}
	}
	if s.ttls.Elevation > 0 {
		if _, err := s.resolver.ResolveElevation(ctx, loc, resolve.Options{CacheTTL: s.ttls.Elevation}); err != nil {
			log.Printf("scheduler: elevation warm failed for %s: %v", loc.Key(), err)
		}
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
