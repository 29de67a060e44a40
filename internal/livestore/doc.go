// Package livestore provides the push-based realtime document store behind
// Ladle's live map and driver feeds.
//
// # Overview
//
// This package implements the publish/subscribe side of the sync layer: a
// collection/document store with merge-upsert writes, store-assigned
// updated_at stamps, and subscriptions that push the full current snapshot
// on every relevant change. An optional MQTT bridge mirrors documents across
// processes so a telemetry producer and any number of dashboards share one
// feed.
//
// # Write Semantics
//
// Upsert creates a document when absent and overlays the provided fields
// when present; unspecified fields are untouched. An id maps to at most one
// document and the last writer wins. Nothing in this layer deletes
// documents. Writes are non-critical by contract: Upsert returns a boolean
// and never panics or errors into the caller's flow.
//
// # Subscription Semantics
//
// Both subscription flavors deliver asynchronously on a per-subscriber
// queue, so one slow consumer cannot stall writers or other subscribers.
// Deliveries to a single subscriber are in order. Collection subscriptions
// always receive the complete matching snapshot, not a diff; document
// subscriptions receive a copy of the document, or nil when it does not
// exist yet.
//
// # Bridge
//
// Bridge publishes local upserts as retained MQTT messages on
// <realm>/<collection>/<id> and folds inbound messages from other clients
// back into the local store. Retained delivery means a freshly started
// dashboard catches up on the latest position of every driver without any
// extra protocol. Broker failures are logged and never surface to writers.
package livestore
