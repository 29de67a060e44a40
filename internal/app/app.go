package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/shahnoor-exe/ladle/internal/annapurna"
	"github.com/shahnoor-exe/ladle/internal/config"
	"github.com/shahnoor-exe/ladle/internal/livestore"
	"github.com/shahnoor-exe/ladle/internal/session"
	"github.com/shahnoor-exe/ladle/internal/telemetry"
	"github.com/shahnoor-exe/ladle/internal/ui"
)

const healthTimeout = 3 * time.Second

// Options configure the ladle application.
type Options struct {
	ConfigPath string // empty uses default ~/.config/ladle/config.toml
	Demo       bool   // force the simulated telemetry feed on
}

// Run boots the ladle TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Demo {
		cfg.Demo.Enabled = true
	}

	// The terminal belongs to the TUI; everything logged goes to a file.
	closeLog, err := redirectLog(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	sess, err := session.Open(cfg.SessionPath)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	client, err := annapurna.NewClient(cfg.APIURL, sess)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	// Pre-flight health check. Failure is logged, not fatal: every page
	// degrades to its placeholder dataset until the API comes back.
	healthCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	if health, err := client.CheckHealth(healthCtx); err != nil {
		log.Printf("app: api unreachable at %s: %v", cfg.APIURL, err)
	} else {
		log.Printf("app: api %s healthy, version %s", cfg.APIURL, health.Version)
	}
	cancel()

	store := livestore.New()
	mirrorSession(sess, store)

	if cfg.MQTTBroker != "" {
		bridge, err := livestore.NewBridge(store, livestore.BridgeConfig{
			BrokerURL: cfg.MQTTBroker,
			Realm:     cfg.Realm,
		})
		if err == nil {
			err = bridge.Start()
		}
		if err != nil {
			// Telemetry degrades to local-only; tracking still works off polls.
			log.Printf("app: livestore bridge unavailable: %v", err)
		} else {
			defer bridge.Close()
		}
	}

	if cfg.Demo.Enabled {
		stopSim := startDemoTelemetry(ctx, store, cfg, client)
		defer stopSim()
	}

	return ui.Run(ui.Options{
		Context: ctx,
		Client:  client,
		Session: sess,
		Store:   store,
		Config:  cfg,
	})
}

// mirrorSession publishes the logged-in user into the live store so views
// subscribed to the users collection see a fresh login without a poll.
func mirrorSession(sess *session.Session, store *livestore.Store) {
	sess.SetNotify(func(u session.User) {
		store.Upsert("users", u.Email, map[string]any{
			"full_name": u.FullName,
			"role":      u.Role,
			"online":    true,
		})
	})
}

// startDemoTelemetry walks a simulated driver along the configured route.
// When the API is reachable the sim tags its positions with the user's most
// recent active order so the tracking view picks them up; otherwise it tags
// the placeholder in-transit order.
func startDemoTelemetry(ctx context.Context, store *livestore.Store, cfg config.Config, client *annapurna.Client) func() {
	orderID := int64(101) // matches the placeholder in-transit order

	fetchCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if orders, err := client.MyOrders(fetchCtx); err == nil {
		for _, o := range orders {
			if !o.Status.Terminal() {
				orderID = o.ID
				break
			}
		}
	}

	return telemetry.StartSim(store, telemetry.SimConfig{
		OrderID:  orderID,
		Start:    telemetry.LatLng{Lat: cfg.Demo.StartLat, Lng: cfg.Demo.StartLng},
		End:      telemetry.LatLng{Lat: cfg.Demo.EndLat, Lng: cfg.Demo.EndLng},
		Interval: cfg.TrackPoll,
	})
}

// redirectLog points the standard logger at the configured file so log
// output never corrupts the alternate screen.
func redirectLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(os.Stderr)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	return func() { _ = f.Close() }, nil
}
