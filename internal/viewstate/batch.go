package viewstate

import (
	"errors"
	"sync"
)

// Batch composes a combined fetch out of independently guarded calls.
// Each part runs in its own goroutine, failures are counted rather than
// short-circuited, and the batch as a whole fails only when every part did.
// Parts must write their results to distinct destinations.
//
//	var data dashboardData
//	var b viewstate.Batch
//	b.Go(func() error {
//		stats, err := client.ImpactDashboard(ctx)
//		if err != nil {
//			data.Impact = fallback.Impact()
//			return err
//		}
//		data.Impact = *stats
//		return nil
//	})
//	b.Go(func() error { ... })
//	err := b.Wait()
//	return data, err
//
// Wait must complete before data is read; evaluating it inline with the
// return operands would race the still-running parts.
type Batch struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	parts    int
	live     int
	firstErr error
}

// Go launches one part of the combined fetch.
func (b *Batch) Go(part func() error) {
	b.mu.Lock()
	b.parts++
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		err := part()
		b.mu.Lock()
		defer b.mu.Unlock()
		if err != nil {
			if b.firstErr == nil {
				b.firstErr = err
			}
			return
		}
		b.live++
	}()
}

// Wait blocks until every part finishes. It returns nil when at least one
// part retrieved live data, the first error when all parts failed, and an
// error for an empty batch.
func (b *Batch) Wait() error {
	b.wg.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.parts == 0 {
		return errors.New("empty batch")
	}
	if b.live > 0 {
		return nil
	}
	return b.firstErr
}
