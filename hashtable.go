package buffercore

import (
	"fmt"
	"sync"

	"github.com/gostonefire/buffercore/hashfunc"
	"github.com/gostonefire/buffercore/internal/bucket"
	"github.com/gostonefire/buffercore/internal/hash"
	"github.com/gostonefire/buffercore/internal/utils"
)

// HashTableStat - Statistics on the overall usage and distribution over buckets
//   - Records is the total number of entries stored
//   - NumberOfBuckets is the number of distinct buckets behind the directory
//   - GlobalDepth is the number of low-order hash bits currently consulted for lookup
//   - BucketDistribution is the number of entries held by the bucket behind each directory slot, slots sharing a bucket repeat its count
type HashTableStat struct {
	Records            int64
	NumberOfBuckets    int64
	GlobalDepth        int64
	BucketDistribution []int64
}

// ExtendibleHashTable - The main extendible hashing implementation struct. It maintains a directory of
// 2^globalDepth slots where each slot references a bucket holding up to bucketSize key/value entries.
// A bucket with local depth d is shared by the 2^(globalDepth-d) slots agreeing on their d low-order
// index bits, splitting a bucket rebinds those slots and doubles the directory when the bucket's local
// depth has caught up with the global depth.
// All operations are safe for concurrent use, the table holds one mutex over every operation in full.
type ExtendibleHashTable[K comparable, V any] struct {
	bucketSize        int
	globalDepth       int
	numBuckets        int
	dir               []*bucket.Bucket[K, V]
	hashAlgorithm     hashfunc.HashAlgorithm[K]
	internalAlgorithm bool
	mu                sync.Mutex
}

// NewExtendibleHashTable - Returns a new extendible hash table holding one empty bucket of local depth 0 (zero).
//   - bucketSize is the number of entries each bucket holds before it has to be split
//   - hashAlgorithm is an optional entry to provide a custom hash algorithm following the hashfunc.HashAlgorithm interface,
//     when nil the internal algorithm for the key type is used (string and predeclared integer types have one).
//
// It returns:
//   - hashTable is a pointer to an ExtendibleHashTable struct
//   - err is a normal Go error which should be nil if everything went ok
func NewExtendibleHashTable[K comparable, V any](
	bucketSize int,
	hashAlgorithm hashfunc.HashAlgorithm[K],
) (
	hashTable *ExtendibleHashTable[K, V],
	err error,
) {

	// Check if bucketSize is valid
	if bucketSize <= 0 {
		err = fmt.Errorf("bucketSize must be a positive value higher than 0 (zero)")
		return
	}

	// If no HashAlgorithm was given then use the default internal
	var internalAlg bool
	if hashAlgorithm == nil {
		var ok bool
		hashAlgorithm, ok = hash.NewDefaultAlgorithm[K]()
		if !ok {
			err = fmt.Errorf("no internal hash algorithm for the key type, a custom one must be supplied")
			return
		}
		internalAlg = true
	}

	hashTable = &ExtendibleHashTable[K, V]{
		bucketSize:        bucketSize,
		numBuckets:        1,
		dir:               []*bucket.Bucket[K, V]{bucket.New[K, V](bucketSize, 0)},
		hashAlgorithm:     hashAlgorithm,
		internalAlgorithm: internalAlg,
	}

	return
}

// GlobalDepth - Returns the current global depth, the number of low-order hash bits consulted for lookup
func (E *ExtendibleHashTable[K, V]) GlobalDepth() int {
	E.mu.Lock()
	defer E.mu.Unlock()

	return E.globalDepth
}

// LocalDepth - Returns the local depth of the bucket referenced by the given directory slot
//   - dirIndex is a directory slot, it has to be between 0 and 2^GlobalDepth - 1 (inclusive)
func (E *ExtendibleHashTable[K, V]) LocalDepth(dirIndex int) int {
	E.mu.Lock()
	defer E.mu.Unlock()

	return E.dir[dirIndex].Depth()
}

// NumBuckets - Returns the number of distinct buckets currently behind the directory
func (E *ExtendibleHashTable[K, V]) NumBuckets() int {
	E.mu.Lock()
	defer E.mu.Unlock()

	return E.numBuckets
}

// indexOf - Returns the directory slot the given key hashes to, must be called with the mutex held
func (E *ExtendibleHashTable[K, V]) indexOf(key K) int {
	return int(E.hashAlgorithm.HashKey(key) & utils.LowBitsMask(E.globalDepth))
}
