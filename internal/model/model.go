package model

// Frame - Represents the access bookkeeping the replacer holds for one buffer pool frame
//   - History is a bounded FIFO with the logical timestamps of the most recent accesses, oldest first
//   - IsEvictable tells whether the owning buffer pool has declared the frame safe to evict
type Frame struct {
	History     []uint64
	IsEvictable bool
}
