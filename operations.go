package buffercore

import (
	"github.com/gostonefire/buffercore/crt"
	"github.com/gostonefire/buffercore/internal/bucket"
	"github.com/gostonefire/buffercore/internal/conf"
)

// Get - Gets the value stored under the given key.
//   - key is the identifier of an entry
//
// It returns:
//   - value is the value of the matching entry if found, if not found an error of type crt.NoRecordFound is also returned.
//   - err is of type crt.NoRecordFound if the key is not present, otherwise nil
func (E *ExtendibleHashTable[K, V]) Get(key K) (value V, err error) {
	E.mu.Lock()
	defer E.mu.Unlock()

	var found bool
	value, found = E.dir[E.indexOf(key)].Find(key)
	if !found {
		err = crt.NoRecordFound{}
		return
	}

	return
}

// Set - Updates an existing entry with new data or adds it if no existing is found with same key.
// A full bucket receiving a new key is split, which doubles the directory whenever the bucket's local
// depth has caught up with the global depth. Splitting repeats until the new key finds room, a skewed
// set of keys may need several rounds before some hash bit finally separates them.
//   - key is the identifier of an entry
//   - value is the value to be stored along with its key
//
// It returns:
//   - err is of type crt.SplitNonProgress if no amount of splitting can separate the keys in a full bucket, otherwise nil
func (E *ExtendibleHashTable[K, V]) Set(key K, value V) (err error) {
	E.mu.Lock()
	defer E.mu.Unlock()

	for {
		index := E.indexOf(key)
		targetBucket := E.dir[index]

		if targetBucket.Insert(key, value) {
			return
		}

		// The bucket is full with a new key on hand, it has to be split
		if E.splitExhausted(targetBucket, key) || targetBucket.Depth() >= conf.MaxDepth {
			err = crt.SplitNonProgress{}
			return
		}

		// A split needs one more index bit, so when the bucket's local depth has caught up with the
		// global depth the directory is doubled first, slot i+oldSize mirroring slot i
		if targetBucket.Depth() == E.globalDepth {
			E.dir = append(E.dir, E.dir...)
			E.globalDepth++
		}

		E.splitBucket(targetBucket)
	}
}

// Delete - Removes the entry stored under the given key.
//   - key is the identifier of an entry
//
// It returns:
//   - found is true if the key was present, when false the table is left untouched
func (E *ExtendibleHashTable[K, V]) Delete(key K) (found bool) {
	E.mu.Lock()
	defer E.mu.Unlock()

	return E.dir[E.indexOf(key)].Remove(key)
}

// Stat - Walks through the entire directory and produces a HashTableStat struct with information.
//   - includeDistribution set to true will include a slice of length 2^GlobalDepth with number of entries behind each directory slot, false will set HashTableStat.BucketDistribution to nil.
func (E *ExtendibleHashTable[K, V]) Stat(includeDistribution bool) (hashTableStat *HashTableStat) {
	E.mu.Lock()
	defer E.mu.Unlock()

	hts := HashTableStat{
		NumberOfBuckets: int64(E.numBuckets),
		GlobalDepth:     int64(E.globalDepth),
	}

	if includeDistribution {
		hts.BucketDistribution = make([]int64, len(E.dir))
	}

	// Iterate over every directory slot, counting each distinct bucket once
	seen := make(map[*bucket.Bucket[K, V]]struct{}, E.numBuckets)
	for i, b := range E.dir {
		if _, ok := seen[b]; !ok {
			seen[b] = struct{}{}
			hts.Records += int64(b.Len())
		}
		if includeDistribution {
			hts.BucketDistribution[i] = int64(b.Len())
		}
	}

	hashTableStat = &hts
	return
}

// splitBucket - Splits the given full bucket into itself and a new sibling of one deeper local depth.
// Directory slots aliasing the bucket are reassigned according to the newly significant index bit and
// the entries that now hash to a sibling slot are moved over. Must be called with the mutex held and
// with the global depth strictly greater than the bucket's local depth.
func (E *ExtendibleHashTable[K, V]) splitBucket(targetBucket *bucket.Bucket[K, V]) {
	localDepth := targetBucket.Depth()
	newBucket := bucket.New[K, V](E.bucketSize, localDepth+1)
	targetBucket.IncrementDepth()
	E.numBuckets++

	// Slots aliasing the bucket with the newly significant bit set are rebound to the new bucket
	newBit := 1 << uint(localDepth)
	for i := range E.dir {
		if E.dir[i] == targetBucket && i&newBit != 0 {
			E.dir[i] = newBucket
		}
	}

	// Entries whose slot no longer references the old bucket are moved to the new one
	for _, entry := range targetBucket.Entries() {
		if E.dir[E.indexOf(entry.Key)] != targetBucket {
			newBucket.Insert(entry.Key, entry.Value)
			targetBucket.Remove(entry.Key)
		}
	}
}

// splitExhausted - Returns whether splitting the given full bucket is pointless since every entry in it,
// and the key about to be inserted, carry the exact same hash value. No hash bit can then ever separate
// them and the insert loop would double the directory indefinitely. Must be called with the mutex held.
func (E *ExtendibleHashTable[K, V]) splitExhausted(targetBucket *bucket.Bucket[K, V], key K) bool {
	keyHash := E.hashAlgorithm.HashKey(key)
	for _, entry := range targetBucket.Entries() {
		if E.hashAlgorithm.HashKey(entry.Key) != keyHash {
			return false
		}
	}

	return true
}
