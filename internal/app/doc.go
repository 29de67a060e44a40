// Package app provides the orchestration layer for the ladle application.
//
// # Overview
//
// This package wires together configuration, the API client, the session,
// the livestore, and the UI to create the complete ladle TUI experience. It
// serves as the composition root where all dependencies are initialized and
// connected.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/ladle/config.toml
//  2. Redirect the standard logger to the configured log file
//  3. Open the persisted session (stored token and user)
//  4. Initialize the HTTP client for the Annapurna API
//  5. Check /health (logged, not fatal; pages fall back to demo data)
//  6. Create the livestore and, when a broker is configured, its MQTT bridge
//  7. Start the demo telemetry generator if enabled
//  8. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read ladle config
//	       ├─────> session.Open()       Restore stored credentials
//	       ├─────> annapurna.NewClient() Create HTTP client
//	       ├─────> livestore.New()      In-process document store
//	       ├─────> livestore.NewBridge() Optional MQTT replication
//	       ├─────> telemetry.StartSim()  Optional demo driver feed
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Inside the UI, each view owns a viewstate.Syncer (or watch.Watcher for
//	tracking) that polls the API on its own cadence and the view renders
//	the latest snapshot. Driver positions flow through the livestore:
//	telemetry (or the bridge) writes documents, the tracking view
//	subscribes.
//
// # Error Handling
//
// Run distinguishes between fatal and recoverable errors.
//
// Fatal (returned from Run):
//   - Configuration file present but invalid
//   - Log file not writable
//   - Session file unreadable for reasons other than absence
//   - API base URL unparseable
//
// Recoverable (logged, the app keeps going):
//   - API unreachable at startup or during polling; pages show their
//     placeholder datasets until a fetch succeeds
//   - MQTT broker unreachable; tracking works off status polls alone
//
// # Dependencies
//
//   - config: loads and parses the TOML configuration
//   - session: persisted login state, consulted per request for the token
//   - annapurna: HTTP client for the food rescue API
//   - livestore: in-process document store with change subscriptions
//   - telemetry: simulated driver position generator for demos
//   - ui: terminal user interface implementation
package app
