package bucket

// Entry - Represents one key/value pair stored in a bucket
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Bucket - Represents a small unordered collection of key/value entries addressed through the directory
// of an extendible hash table. A bucket with local depth d is shared by every directory slot agreeing on
// its d low-order index bits, so the table may reach it through several slots at once.
// Entries are scanned linearly, the capacity is small enough that no ordering pays off.
type Bucket[K comparable, V any] struct {
	entries []Entry[K, V]
	size    int
	depth   int
}

// New - Returns a pointer to a new Bucket instance
//   - size is the number of entries the bucket holds before it is considered full
//   - depth is the local depth the bucket starts out with
func New[K comparable, V any](size, depth int) *Bucket[K, V] {
	return &Bucket[K, V]{
		entries: make([]Entry[K, V], 0, size),
		size:    size,
		depth:   depth,
	}
}

// Find - Returns the value stored under key, the found return value tells whether the key was present at all
func (B *Bucket[K, V]) Find(key K) (value V, found bool) {
	for _, entry := range B.entries {
		if entry.Key == key {
			value = entry.Value
			found = true
			return
		}
	}

	return
}

// Remove - Removes the entry stored under key, returns false if no such entry was present
func (B *Bucket[K, V]) Remove(key K) bool {
	for i := range B.entries {
		if B.entries[i].Key == key {
			B.entries = append(B.entries[:i], B.entries[i+1:]...)
			return true
		}
	}

	return false
}

// Insert - Inserts the entry under key or overwrites the value of an already present key.
// An existing key is always accepted, also when the bucket is full, a new key only while there is
// capacity left. Returns whether the entry was accepted.
func (B *Bucket[K, V]) Insert(key K, value V) bool {
	for i := range B.entries {
		if B.entries[i].Key == key {
			B.entries[i].Value = value
			return true
		}
	}

	if B.IsFull() {
		return false
	}

	B.entries = append(B.entries, Entry[K, V]{Key: key, Value: value})
	return true
}

// IsFull - Returns whether the bucket has reached its capacity
func (B *Bucket[K, V]) IsFull() bool {
	return len(B.entries) >= B.size
}

// Len - Returns the number of entries currently held
func (B *Bucket[K, V]) Len() int {
	return len(B.entries)
}

// Depth - Returns the local depth of the bucket
func (B *Bucket[K, V]) Depth() int {
	return B.depth
}

// IncrementDepth - Increments the local depth, done by the table as part of splitting the bucket
func (B *Bucket[K, V]) IncrementDepth() {
	B.depth++
}

// Entries - Returns a snapshot copy of the entries, used by the table when redistributing entries
// after a split while the live collection is being modified
func (B *Bucket[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], len(B.entries))
	copy(entries, B.entries)

	return entries
}
