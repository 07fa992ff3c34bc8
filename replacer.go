package buffercore

import (
	"fmt"
	"math"
	"sync"

	"github.com/gostonefire/buffercore/crt"
	"github.com/gostonefire/buffercore/internal/model"
)

// infiniteDistance - Backward k-distance assigned to frames with fewer than k recorded accesses,
// such frames always lose against any frame with a full history
const infiniteDistance uint64 = math.MaxUint64

// LRUKReplacer - The main LRU-K replacement policy implementation struct. It keeps, per buffer pool
// frame, the logical timestamps of the up to k most recent accesses and selects as eviction victim the
// evictable frame whose k-th most recent access lies furthest in the past. Frames with fewer than k
// recorded accesses count as infinitely distant, ties are broken towards the frame with the earliest
// recorded access.
// All operations are safe for concurrent use, the replacer holds one mutex over every operation in full.
type LRUKReplacer struct {
	replacerSize     int
	k                int
	currSize         int
	currentTimestamp uint64
	frames           map[int]*model.Frame
	mu               sync.Mutex
}

// NewLRUKReplacer - Returns a new replacer tracking accesses for at most numFrames frames.
//   - numFrames is the number of frames the owning buffer pool addresses, valid frame ids are 0 up to numFrames - 1
//   - k is the number of historical accesses per frame the backward k-distance is computed over
//
// It returns:
//   - replacer is a pointer to a LRUKReplacer struct
//   - err is a normal Go error which should be nil if everything went ok
func NewLRUKReplacer(numFrames, k int) (replacer *LRUKReplacer, err error) {
	// Check if numFrames is valid
	if numFrames <= 0 {
		err = fmt.Errorf("numFrames must be a positive value higher than 0 (zero)")
		return
	}

	// Check if k is valid
	if k <= 0 {
		err = fmt.Errorf("k must be a positive value higher than 0 (zero)")
		return
	}

	replacer = &LRUKReplacer{
		replacerSize: numFrames,
		k:            k,
		frames:       make(map[int]*model.Frame),
	}

	return
}

// RecordAccess - Records that the given frame was accessed at the current logical timestamp, which is
// then advanced by one. A frame not seen before gets a new record which starts out non evictable, a
// frame seen before keeps its evictable state. The history never grows beyond k timestamps, the oldest
// is dropped first.
//   - frameID is the id of the accessed frame
//
// It returns:
//   - err is of type crt.InvalidFrame if frameID is outside the range given at creation, otherwise nil
func (L *LRUKReplacer) RecordAccess(frameID int) (err error) {
	L.mu.Lock()
	defer L.mu.Unlock()

	if frameID < 0 || frameID >= L.replacerSize {
		err = crt.InvalidFrame{}
		return
	}

	frame, ok := L.frames[frameID]
	if !ok {
		frame = &model.Frame{}
		L.frames[frameID] = frame
	}

	frame.History = append(frame.History, L.currentTimestamp)
	if len(frame.History) > L.k {
		frame.History = frame.History[1:]
	}

	L.currentTimestamp++

	return
}

// SetEvictable - Toggles whether the given frame may be selected for eviction. The replacer size, as
// reported by Size, tracks the number of evictable frames and is adjusted on every actual change of
// state. Toggling an untracked frame, or toggling to the state already held, is a no-op.
//   - frameID is the id of the frame to toggle
//   - evictable is the new state of the frame
//
// It returns:
//   - err is of type crt.InvalidFrame if frameID is outside the range given at creation, otherwise nil
func (L *LRUKReplacer) SetEvictable(frameID int, evictable bool) (err error) {
	L.mu.Lock()
	defer L.mu.Unlock()

	if frameID < 0 || frameID >= L.replacerSize {
		err = crt.InvalidFrame{}
		return
	}

	frame, ok := L.frames[frameID]
	if !ok {
		return
	}

	if frame.IsEvictable != evictable {
		frame.IsEvictable = evictable
		if evictable {
			L.currSize++
		} else {
			L.currSize--
		}
	}

	return
}

// Remove - Erases the record of the given frame regardless of its backward k-distance. An untracked
// frame, known or unknown to the owning buffer pool, is a no-op. A frame that is tracked but not
// evictable is still pinned and removing it is an error.
//   - frameID is the id of the frame to remove
//
// It returns:
//   - err is of type crt.NotEvictable if the frame is tracked but pinned, otherwise nil
func (L *LRUKReplacer) Remove(frameID int) (err error) {
	L.mu.Lock()
	defer L.mu.Unlock()

	frame, ok := L.frames[frameID]
	if !ok {
		return
	}

	if !frame.IsEvictable {
		err = crt.NotEvictable{}
		return
	}

	delete(L.frames, frameID)
	L.currSize--

	return
}

// Evict - Selects the evictable frame with the largest backward k-distance, erases its record and
// returns its id. The caller is from there on responsible for flushing or discarding the underlying
// page. Frames with fewer than k recorded accesses compare as infinitely distant, ties are broken
// towards the frame with the earliest recorded access.
//
// It returns:
//   - frameID is the id of the evicted frame
//   - err is of type crt.NoEvictableFrame if no frame is currently marked evictable, otherwise nil
func (L *LRUKReplacer) Evict() (frameID int, err error) {
	L.mu.Lock()
	defer L.mu.Unlock()

	if L.currSize == 0 {
		err = crt.NoEvictableFrame{}
		return
	}

	var victimID int
	var victimDistance, victimFirst uint64
	var found bool

	for id, frame := range L.frames {
		if !frame.IsEvictable {
			continue
		}

		distance := L.backwardKDistance(frame)
		first := frame.History[0]
		if !found || distance > victimDistance || distance == victimDistance && first < victimFirst {
			victimID = id
			victimDistance = distance
			victimFirst = first
			found = true
		}
	}

	delete(L.frames, victimID)
	L.currSize--
	frameID = victimID

	return
}

// Size - Returns the number of frames currently marked evictable
func (L *LRUKReplacer) Size() int {
	L.mu.Lock()
	defer L.mu.Unlock()

	return L.currSize
}

// backwardKDistance - Returns the age of the k-th most recent access to the frame, or infiniteDistance
// when fewer than k accesses have been recorded. Must be called with the mutex held.
func (L *LRUKReplacer) backwardKDistance(frame *model.Frame) uint64 {
	if len(frame.History) < L.k {
		return infiniteDistance
	}

	return L.currentTimestamp - frame.History[len(frame.History)-L.k]
}
