// Package telemetry fabricates periodic driver position updates for demos.
//
// When no real device feed exists, StartSim stands in for one: a
// timer-driven generator that walks a straight line between two coordinates
// and writes each position into the livestore, where the tracking page reads
// it exactly as it would a real feed.
package telemetry

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shahnoor-exe/ladle/internal/livestore"
)

// Collection is the livestore collection driver positions are written to.
const Collection = "driver_locations"

const (
	defaultInterval = 10 * time.Second
	defaultSteps    = 50
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64
	Lng float64
}

// SimConfig parameterizes one simulated trip.
type SimConfig struct {
	DriverID string // generated when empty
	OrderID  int64
	Start    LatLng
	End      LatLng
	Interval time.Duration // default 10s
	Steps    int           // ticks from Start to End, default 50
}

// StartSim begins emitting position updates every Interval. Progress
// advances 1/Steps per tick; the generator clamps progress to 1, emits one
// final zero-speed update, and then stops itself. The returned stop
// function cancels early and is safe to call repeatedly, including after
// the generator already finished.
func StartSim(store *livestore.Store, cfg SimConfig) (stop func()) {
	if cfg.DriverID == "" {
		cfg.DriverID = "sim-" + uuid.NewString()[:8]
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Steps <= 0 {
		cfg.Steps = defaultSteps
	}

	stopCh := make(chan struct{})
	var once sync.Once
	stop = func() { once.Do(func() { close(stopCh) }) }

	go run(store, cfg, stopCh, stop)
	return stop
}

func run(store *livestore.Store, cfg SimConfig, stopCh <-chan struct{}, stop func()) {
	heading := Bearing(cfg.Start, cfg.End)

	emit := func(progress float64) {
		pos := Position(cfg.Start, cfg.End, progress)
		speed := 0.0
		if progress < 1 {
			speed = 15 + rand.Float64()*25 // plausible city speeds, km/h
		}
		store.Upsert(Collection, cfg.DriverID, map[string]any{
			"order_id":  cfg.OrderID,
			"lat":       pos.Lat,
			"lng":       pos.Lng,
			"heading":   heading,
			"speed_kmh": speed,
			"progress":  progress,
		})
	}

	emit(0)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for step := 1; ; step++ {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}

		progress := float64(step) / float64(cfg.Steps)
		if progress >= 1 {
			emit(1)
			stop()
			return
		}
		emit(progress)
	}
}

// Position interpolates linearly between a and b. Progress outside [0, 1]
// is clamped.
func Position(a, b LatLng, progress float64) LatLng {
	progress = math.Max(0, math.Min(1, progress))
	return LatLng{
		Lat: a.Lat + (b.Lat-a.Lat)*progress,
		Lng: a.Lng + (b.Lng-a.Lng)*progress,
	}
}

// Bearing returns the compass heading in degrees from a to b, normalized
// into [0, 360). Flat-plane approximation; good enough for a demo path.
func Bearing(a, b LatLng) float64 {
	deg := math.Atan2(b.Lng-a.Lng, b.Lat-a.Lat) * 180 / math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
