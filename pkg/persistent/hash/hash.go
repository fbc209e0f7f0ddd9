// Package hash contains the hash functions used by persistent maps and by
// value hashing.
package hash

import "unsafe"

// Seed is the initial accumulator for Combine.
const Seed uint32 = 5381

// Combine mixes h into the accumulator acc. The result depends on the order
// in which hashes are combined.
func Combine(acc, h uint32) uint32 {
	return acc<<5 + acc + h
}

// Of combines several hashes into one, in order.
func Of(hs ...uint32) uint32 {
	acc := Seed
	for _, h := range hs {
		acc = Combine(acc, h)
	}
	return acc
}

const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619
)

// String hashes the bytes of a string with 32-bit FNV-1a.
func String(s string) uint32 {
	h := fnvOffset
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}

// Pointer hashes a pointer by its address, folding 64-bit addresses into 32
// bits.
func Pointer(p unsafe.Pointer) uint32 {
	u := uint64(uintptr(p))
	return uint32(u>>32) ^ uint32(u)
}
