// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

// Hash functions used by the unicity ("hash-cons") table and the operation
// caches. Cantor's pairing function turns two naturals into one without
// collisions over the naturals, which we then fold modulo the table size.

func pairHash3(a, b, c, length int) int {
	return pairHash(c, pairHash(a, b, length), length)
}

// pairHash bijectively maps a pair of integers (a, b) into a single integer
// then reduces it modulo length, giving a slot in [0, length).
func pairHash(a, b, length int) int {
	ua := uint64(a)
	ub := uint64(b)
	return int(((((ua + ub) * (ua + ub + 1)) / 2) + ua) % uint64(length))
}
