// Package viewstate keeps page-local view state consistent with remote
// sources of truth.
//
// # Overview
//
// Every page in Ladle owns a Syncer: a small controller that issues an
// initial fetch, re-fetches on a fixed cadence, accepts an out-of-cadence
// refresh when the terminal regains focus, and degrades to a static
// fallback dataset until real data has been seen. It is the Go analog of
// the mount/poll/visibility plumbing a web dashboard would wire by hand.
//
// # State Machine
//
// A Syncer moves through three observable phases, encoded on Snapshot:
//
//	Initializing      Loading=true, no data yet
//	Loaded(fallback)  Loading=false, UsingLiveData=false, Data=fallback
//	Loaded(live)      Loading=false, UsingLiveData=true
//
// The fallback phase is only reachable when the very first fetch fails.
// Once UsingLiveData is true it stays true: transient re-fetch failures
// keep the last good data and record LastError, and the fallback dataset
// can never overwrite a view that has shown live data.
//
// # Ordering
//
// Timer fetches are serial by construction, but a Refocus fetch may overlap
// one. Each fetch receives a sequence number when it is issued; apply
// discards any completion whose sequence is lower than the newest applied
// one. The discipline is issue-order-wins: a response from an older fetch
// arriving late can never clobber data from a newer fetch, no matter how
// the network interleaves completions.
//
// # Teardown
//
// Close bars snapshot application under the same lock that apply takes, so
// after Close returns there are no further state updates — even if a fetch
// is still in flight. Closing twice is safe. UI code calls Close whenever a
// page is switched away, mirroring component unmount.
package viewstate
