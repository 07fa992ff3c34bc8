package buffercore

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/gostonefire/buffercore/crt"
	"github.com/stretchr/testify/assert"
)

func TestStressExtendibleHashTable(t *testing.T) {
	t.Run("handles lots of concurrent sets, gets and deletes", func(t *testing.T) {
		// Prepare
		const workers = 8
		const perWorker = 2000

		eht, err := NewExtendibleHashTable[int, string](4, nil)
		assert.NoError(t, err, "creates hash table")

		// Execute
		var wg sync.WaitGroup
		errCh := make(chan error, workers)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				base := w * perWorker

				for i := 0; i < perWorker; i++ {
					if err := eht.Set(base+i, fmt.Sprintf("value-%d", base+i)); err != nil {
						errCh <- err
						return
					}
				}
				for i := 0; i < perWorker; i += 2 {
					if !eht.Delete(base + i) {
						errCh <- fmt.Errorf("worker %d failed to delete key %d", w, base+i)
						return
					}
				}
				for i := 1; i < perWorker; i += 2 {
					if _, err := eht.Get(base + i); err != nil {
						errCh <- err
						return
					}
				}
			}(w)
		}
		wg.Wait()
		close(errCh)

		// Check
		for err := range errCh {
			assert.NoError(t, err, "no worker ran into trouble")
		}

		for w := 0; w < workers; w++ {
			base := w * perWorker
			for i := 0; i < perWorker; i++ {
				value, err := eht.Get(base + i)
				if i%2 == 0 {
					assert.ErrorIs(t, err, crt.NoRecordFound{}, "deleted key stays gone")
				} else {
					assert.NoError(t, err, "kept key is found")
					assert.Equal(t, fmt.Sprintf("value-%d", base+i), value, "kept key kept its value")
				}
			}
		}

		stat := eht.Stat(false)
		assert.Equal(t, int64(workers*perWorker/2), stat.Records, "correct number of records after the dust settled")
	})
}

func TestStressLRUKReplacer(t *testing.T) {
	t.Run("handles concurrent accesses and evictions without losing frames", func(t *testing.T) {
		// Prepare
		const workers = 8
		const framesPerWorker = 100
		const numFrames = workers * framesPerWorker

		lru, err := NewLRUKReplacer(numFrames, 3)
		assert.NoError(t, err, "creates replacer")

		// Execute, each worker drives its own range of frames
		var wg sync.WaitGroup
		errCh := make(chan error, workers)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				base := w * framesPerWorker

				for round := 0; round < 5; round++ {
					for i := 0; i < framesPerWorker; i++ {
						if err := lru.RecordAccess(base + i); err != nil {
							errCh <- err
							return
						}
					}
				}
				for i := 0; i < framesPerWorker; i++ {
					if err := lru.SetEvictable(base+i, true); err != nil {
						errCh <- err
						return
					}
				}
			}(w)
		}
		wg.Wait()
		close(errCh)

		for err := range errCh {
			assert.NoError(t, err, "no worker ran into trouble")
		}
		assert.Equal(t, numFrames, lru.Size(), "every frame ended up evictable")

		// Concurrent evictions must hand out every frame exactly once
		victimCh := make(chan int, numFrames)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					frameID, err := lru.Evict()
					if errors.Is(err, crt.NoEvictableFrame{}) {
						return
					}
					victimCh <- frameID
				}
			}()
		}
		wg.Wait()
		close(victimCh)

		// Check
		seen := make(map[int]bool)
		for frameID := range victimCh {
			assert.False(t, seen[frameID], "no frame evicted twice")
			seen[frameID] = true
		}
		assert.Len(t, seen, numFrames, "every frame was evicted exactly once")
		assert.Equal(t, 0, lru.Size(), "replacer is empty")
	})
}
