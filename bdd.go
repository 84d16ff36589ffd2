// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import "fmt"

// EncodeBoundedSum builds, in an ADD store, the 0/1-valued diagram for the
// constraint `offset + sum(2^i * b_i) <= bound`, where bits holds the
// variable identifiers of b_0, b_1, ... in increasing significance order.
// It is the idiom the domain-encoding scenario builds by hand (§8), lifted
// into a reusable helper: fold the weighted sum via repeated SUM applies,
// then a single LESS_EQ against the constant bound.
func EncodeBoundedSum(store *Store, bits []int, offset int, bound int) (int, error) {
	if store.Kind() != KindADD {
		return -1, fmt.Errorf("addcp: EncodeBoundedSum requires an ADD store")
	}
	sum, err := store.GetConstantNode(float64(offset))
	if err != nil {
		return -1, err
	}
	weight := 1
	for _, v := range bits {
		term, err := store.GetVarNode(v, 0, float64(weight))
		if err != nil {
			return -1, err
		}
		sum, err = store.ApplyInt(sum, term, Sum)
		if err != nil {
			return -1, err
		}
		weight *= 2
	}
	limit, err := store.GetConstantNode(float64(bound))
	if err != nil {
		return -1, err
	}
	return store.ApplyInt(sum, limit, LessEq)
}
