package hash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/gostonefire/buffercore/hashfunc"
	"golang.org/x/exp/constraints"
)

// StringHashAlgorithm - The internally used hash algorithm for string keys is implemented using
// xxhash.Sum64String to create a hash value over the key. The table then applies
// slot = hash & (1<<globalDepth - 1) to get the directory slot, where 1<<globalDepth
// (2 to the power of globalDepth) is the current directory size.
type StringHashAlgorithm struct{}

// NewStringHashAlgorithm - Returns a pointer to a new StringHashAlgorithm instance
func NewStringHashAlgorithm() *StringHashAlgorithm {
	return &StringHashAlgorithm{}
}

// HashKey - Given key it generates an unsigned integer hash value
func (S *StringHashAlgorithm) HashKey(key string) uint64 {
	return xxhash.Sum64String(key)
}

// IntegerHashAlgorithm - The internally used hash algorithm for integer keys. The key is widened to
// uint64 as is, so the low-order bits of the key select the directory slot directly. Integer keys in a
// buffer pool are typically page ids which are dense and spread well over the low-order bits.
type IntegerHashAlgorithm[K constraints.Integer] struct{}

// NewIntegerHashAlgorithm - Returns a pointer to a new IntegerHashAlgorithm instance
func NewIntegerHashAlgorithm[K constraints.Integer]() *IntegerHashAlgorithm[K] {
	return &IntegerHashAlgorithm[K]{}
}

// HashKey - Given key it generates an unsigned integer hash value
func (I *IntegerHashAlgorithm[K]) HashKey(key K) uint64 {
	return uint64(key)
}

// NewDefaultAlgorithm - Returns the internal hash algorithm for key types having one.
// String keys get the xxhash based algorithm and keys of the predeclared integer types get the
// widening algorithm. For any other key type the second return value is false and a custom
// hashfunc.HashAlgorithm has to be supplied when creating the table.
func NewDefaultAlgorithm[K any]() (algorithm hashfunc.HashAlgorithm[K], ok bool) {
	var key K
	switch any(key).(type) {
	case string:
		algorithm, ok = any(NewStringHashAlgorithm()).(hashfunc.HashAlgorithm[K])
	case int:
		algorithm, ok = any(NewIntegerHashAlgorithm[int]()).(hashfunc.HashAlgorithm[K])
	case int8:
		algorithm, ok = any(NewIntegerHashAlgorithm[int8]()).(hashfunc.HashAlgorithm[K])
	case int16:
		algorithm, ok = any(NewIntegerHashAlgorithm[int16]()).(hashfunc.HashAlgorithm[K])
	case int32:
		algorithm, ok = any(NewIntegerHashAlgorithm[int32]()).(hashfunc.HashAlgorithm[K])
	case int64:
		algorithm, ok = any(NewIntegerHashAlgorithm[int64]()).(hashfunc.HashAlgorithm[K])
	case uint:
		algorithm, ok = any(NewIntegerHashAlgorithm[uint]()).(hashfunc.HashAlgorithm[K])
	case uint8:
		algorithm, ok = any(NewIntegerHashAlgorithm[uint8]()).(hashfunc.HashAlgorithm[K])
	case uint16:
		algorithm, ok = any(NewIntegerHashAlgorithm[uint16]()).(hashfunc.HashAlgorithm[K])
	case uint32:
		algorithm, ok = any(NewIntegerHashAlgorithm[uint32]()).(hashfunc.HashAlgorithm[K])
	case uint64:
		algorithm, ok = any(NewIntegerHashAlgorithm[uint64]()).(hashfunc.HashAlgorithm[K])
	case uintptr:
		algorithm, ok = any(NewIntegerHashAlgorithm[uintptr]()).(hashfunc.HashAlgorithm[K])
	}

	return
}
