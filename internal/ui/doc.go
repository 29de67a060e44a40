// Package ui renders the terminal interface with Bubble Tea.
//
// # Views
//
// The root Model owns five views: login, the impact dashboard, the order
// list, the live deliveries map, and per-order tracking. Each data-bearing
// view holds its own
// viewstate.Syncer (or watch.Watcher for tracking) and the view reads the
// latest snapshot on every render; a one-second tick forces repaints but
// never issues a fetch. Fetch cadence belongs entirely to the syncers.
//
// # Focus
//
// The program runs with focus reporting enabled. A tea.FocusMsg triggers an
// out-of-cadence refresh of the visible view, so returning to the terminal
// never shows data a full polling interval old. Switching to a view does
// the same.
//
// # Tracking lifecycle
//
// Opening tracking on an order starts a watcher and a livestore
// subscription; leaving the view (esc, view switch, quit) stops both. The
// watcher also stops itself once the order reaches a terminal status, and
// the view stays up so the final state remains readable.
package ui
