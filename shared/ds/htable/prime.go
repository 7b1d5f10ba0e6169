package htable

import (
	"fmt"
	"math/big"
	"math/rand"
)

// Number of random Fermat witnesses per candidate. More rounds shrink the
// false-positive probability but never reach zero; 30 keeps construction
// and resize cheap while making a composite capacity vanishingly unlikely.
// Tunable accuracy/performance trade-off, not a correctness guarantee.
const fermatRounds = 30

var bigOne = big.NewInt(1)

// isPrime runs a Fermat primality test: for random witnesses a in [1, n-1],
// a composite n almost always yields a^(n-1) mod n != 1. "true" means
// probably prime. Carmichael numbers can fool the test for witnesses
// coprime with n; with random witnesses and fermatRounds repetitions that
// is a non-issue for table sizing, so the classic algorithm is kept.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}

	nBig := big.NewInt(int64(n))
	exp := big.NewInt(int64(n - 1))
	pow := new(big.Int)
	for i := 0; i < fermatRounds; i++ {
		a := big.NewInt(1 + rand.Int63n(int64(n-1)))
		if pow.Exp(a, exp, nBig).Cmp(bigOne) != 0 {
			return false
		}
	}
	return true
}

// nextPrime returns the smallest integer >= n that isPrime accepts,
// scanning odd candidates upward. Bertrand's postulate puts a prime below
// 2n; the scan allows up to 4n so a Fermat false negative cannot abort a
// resize. Running past even that bound means the sizing machinery itself
// is broken, reported as ErrPrimeSearch.
func nextPrime(n int) (int, error) {
	if n <= 2 {
		return 2, nil
	}
	c := n
	if c%2 == 0 {
		c++
	}
	for ; c < 4*n; c += 2 {
		if isPrime(c) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("no prime in [%d, %d): %w", n, 4*n, ErrPrimeSearch)
}
