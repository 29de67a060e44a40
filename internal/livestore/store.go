package livestore

import (
	"log"
	"strings"
	"sync"
	"time"
)

// Document is one entry in a collection. Fields always carries an
// "updated_at" value assigned by the store at write time; writers cannot
// override it.
type Document struct {
	ID        string
	Fields    map[string]any
	UpdatedAt time.Time
}

// Store is an in-process document store with merge-upsert writes and
// snapshot-push subscriptions. Every change delivers the full current state
// to interested subscribers, never a diff, mirroring how the hosted realtime
// backend behaves.
type Store struct {
	mu          sync.Mutex
	now         func() time.Time
	collections map[string]map[string]Document
	subs        map[int64]*subscriber
	nextSubID   int64
	publish     func(collection, id string, fields map[string]any)
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:         time.Now,
		collections: make(map[string]map[string]Document),
		subs:        make(map[int64]*subscriber),
	}
}

// Upsert merge-writes fields into the named document, creating it if absent.
// Fields not present in the write are preserved. The store stamps the
// document with its own updated_at. The write is non-critical: failures are
// reported through the return value and a log line, never an error.
func (st *Store) Upsert(collection, id string, fields map[string]any) bool {
	if strings.TrimSpace(collection) == "" || strings.TrimSpace(id) == "" {
		log.Printf("livestore: dropped upsert with empty collection or id")
		return false
	}
	st.applyWrite(collection, id, fields, true)
	return true
}

// SubscribeCollection registers a live listener for every document in the
// collection that matches filter (nil matches all). onChange fires
// asynchronously with the full current snapshot: once shortly after
// subscribing (with an empty slice when nothing matches) and again after
// every relevant change. Snapshot ordering is not stable across calls.
//
// The returned unsubscribe function is idempotent. After it returns no new
// deliveries are scheduled; one already in flight may still complete.
func (st *Store) SubscribeCollection(collection string, filter func(Document) bool, onChange func([]Document)) (unsubscribe func()) {
	sub := newSubscriber()
	sub.collection = collection
	sub.filter = filter
	sub.onCollection = onChange

	st.mu.Lock()
	id := st.nextSubID
	st.nextSubID++
	st.subs[id] = sub
	snap := st.matchingLocked(collection, filter)
	// Queue the initial snapshot before releasing the lock; a write landing
	// between unlock and push would enqueue its newer snapshot first and
	// leave the subscriber on stale data until the next change.
	sub.push(func() { onChange(snap) })
	st.mu.Unlock()

	go sub.run()

	return st.unsubscribeFunc(id, sub)
}

// SubscribeDocument registers a live listener for a single document.
// onChange receives nil when the document does not exist, including in the
// initial delivery, so callers can distinguish "absent" from "not yet
// loaded" by whether the callback has fired at all.
func (st *Store) SubscribeDocument(collection, id string, onChange func(*Document)) (unsubscribe func()) {
	sub := newSubscriber()
	sub.collection = collection
	sub.docID = id
	sub.onDocument = onChange

	st.mu.Lock()
	subID := st.nextSubID
	st.nextSubID++
	st.subs[subID] = sub
	initial := st.documentLocked(collection, id)
	// Same ordering rule as SubscribeCollection: the initial delivery is
	// queued under the lock so no concurrent write can jump ahead of it.
	sub.push(func() { onChange(initial) })
	st.mu.Unlock()

	go sub.run()

	return st.unsubscribeFunc(subID, sub)
}

// Document returns a copy of the named document, or nil if absent.
func (st *Store) Document(collection, id string) *Document {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.documentLocked(collection, id)
}

// Collection returns copies of every document in the collection.
func (st *Store) Collection(collection string) []Document {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.matchingLocked(collection, nil)
}

func (st *Store) unsubscribeFunc(id int64, sub *subscriber) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			st.mu.Lock()
			delete(st.subs, id)
			st.mu.Unlock()
			sub.close()
		})
	}
}

// applyWrite is the single mutation path, used both for local upserts and
// for writes arriving over the bridge (which must not be re-published).
func (st *Store) applyWrite(collection, id string, fields map[string]any, republish bool) {
	st.mu.Lock()

	col := st.collections[collection]
	if col == nil {
		col = make(map[string]Document)
		st.collections[collection] = col
	}

	old, existed := col[id]
	doc := Document{ID: id, Fields: make(map[string]any, len(fields)+1)}
	if existed {
		for k, v := range old.Fields {
			doc.Fields[k] = v
		}
	}
	for k, v := range fields {
		if k == "updated_at" {
			continue
		}
		doc.Fields[k] = v
	}
	doc.UpdatedAt = st.now()
	doc.Fields["updated_at"] = doc.UpdatedAt
	col[id] = doc

	for _, sub := range st.subs {
		if sub.collection != collection {
			continue
		}
		if sub.docID != "" {
			if sub.docID != id {
				continue
			}
			clone := cloneDocument(doc)
			deliver := sub.onDocument
			sub.push(func() { deliver(&clone) })
			continue
		}
		// A collection snapshot changed when the written document matches
		// now or matched before the write.
		if sub.filter != nil && !sub.filter(doc) && !(existed && sub.filter(old)) {
			continue
		}
		snap := st.matchingLocked(collection, sub.filter)
		deliver := sub.onCollection
		sub.push(func() { deliver(snap) })
	}

	publish := st.publish
	st.mu.Unlock()

	if republish && publish != nil {
		publish(collection, id, fields)
	}
}

// setPublishHook wires the bridge's outbound path. At most one hook.
func (st *Store) setPublishHook(hook func(collection, id string, fields map[string]any)) {
	st.mu.Lock()
	st.publish = hook
	st.mu.Unlock()
}

func (st *Store) documentLocked(collection, id string) *Document {
	if doc, ok := st.collections[collection][id]; ok {
		clone := cloneDocument(doc)
		return &clone
	}
	return nil
}

func (st *Store) matchingLocked(collection string, filter func(Document) bool) []Document {
	docs := make([]Document, 0, len(st.collections[collection]))
	for _, doc := range st.collections[collection] {
		if filter != nil && !filter(doc) {
			continue
		}
		docs = append(docs, cloneDocument(doc))
	}
	return docs
}

func cloneDocument(doc Document) Document {
	fields := make(map[string]any, len(doc.Fields))
	for k, v := range doc.Fields {
		fields[k] = v
	}
	return Document{ID: doc.ID, Fields: fields, UpdatedAt: doc.UpdatedAt}
}

// subscriber serializes deliveries to one onChange callback so a slow
// consumer never blocks writers or other subscribers.
type subscriber struct {
	collection   string
	docID        string
	filter       func(Document) bool
	onCollection func([]Document)
	onDocument   func(*Document)

	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

func newSubscriber() *subscriber {
	return &subscriber{wake: make(chan struct{}, 1)}
}

func (s *subscriber) push(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queue = append(s.queue, fn)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	for range s.wake {
		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			fn := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			fn()
		}
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	close(s.wake)
}
