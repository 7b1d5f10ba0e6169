package htable

import "fmt"

// Key alphabet. Keys are folded to lower case before hashing and comparison,
// at every call site identically, so "ABC" and "abc" are the same key.
// After folding a key may contain only:
//
//	a-z  0-9  : - _ . /
//
// 41 symbols total, so the polynomial hash works in radix 41. Anything else
// (spaces, non-ASCII, control bytes) is rejected with ErrInvalidKey before
// any probing happens.
const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789:-_./"

const radix = len(alphabet)

// Modulus of the secondary hash used by double hashing. The stride it
// produces is in [1, dblHashK], never zero, so a probe walk always advances.
const dblHashK = 8

// charCode[b] is the radix-41 digit for byte b, or -1 if b is not in the
// alphabet. Upper-case letters fold onto their lower-case digit.
var charCode = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = int8(i)
	}
	for b := byte('A'); b <= 'Z'; b++ {
		t[b] = t[b+('a'-'A')]
	}
	return t
}()

// NormalizeKey folds key to lower case and validates it against the
// alphabet. Every public Table operation passes keys through here, so a
// lookup normalizes exactly as the insert did.
func NormalizeKey(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	folded := false
	for i := 0; i < len(key); i++ {
		b := key[i]
		if charCode[b] < 0 {
			return "", fmt.Errorf("key %q: byte %q at position %d: %w", key, b, i, ErrInvalidKey)
		}
		if b >= 'A' && b <= 'Z' {
			folded = true
		}
	}
	if !folded {
		return key, nil
	}
	buf := []byte(key)
	for i, b := range buf {
		if b >= 'A' && b <= 'Z' {
			buf[i] = b + ('a' - 'A')
		}
	}
	return string(buf), nil
}

// hashKey maps a normalized key to a slot index in [0, capacity).
//
// The key is read as a radix-41 numeral, most significant digit first. The
// full polynomial value overflows fixed-width integers after a handful of
// characters, so the modulus is folded into the accumulation:
//
//	acc = (acc*radix + code(c)) mod capacity
//
// which is arithmetically identical to reducing the big integer at the end.
func hashKey(key string, capacity int) int {
	acc := 0
	for i := 0; i < len(key); i++ {
		acc = (acc*radix + int(charCode[key[i]])) % capacity
	}
	return acc
}

// secondaryStride is the second hash used by double hashing: the same
// polynomial accumulated mod dblHashK, mapped to [1, dblHashK]. It depends
// only on the key, so the stride is constant across one probe walk.
func secondaryStride(key string) int {
	acc := 0
	for i := 0; i < len(key); i++ {
		acc = (acc*radix + int(charCode[key[i]])) % dblHashK
	}
	return dblHashK - acc
}
