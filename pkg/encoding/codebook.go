// Package encoding assigns dense integer codes to categorical identifiers.
package encoding

import (
	"fmt"
	"sort"
	"strconv"
)

// Strategy decides the order in which distinct keys receive codes
type Strategy string

const (
	// FirstSeen numbers keys in order of first appearance
	FirstSeen Strategy = "first_seen"
	// Sorted numbers keys in natural order, independent of row order
	Sorted Strategy = "sorted"
)

// ParseStrategy validates a strategy name. Empty means FirstSeen.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", FirstSeen:
		return FirstSeen, nil
	case Sorted:
		return Sorted, nil
	default:
		return "", fmt.Errorf("unknown encoding strategy: %q", s)
	}
}

// Codebook maps distinct keys to consecutive codes starting at 0.
// A Codebook is immutable once built.
type Codebook struct {
	codes map[string]int
	keys  []string
}

// Build creates a codebook over the union of the sources. With FirstSeen the
// sources are scanned in argument order.
func Build(strategy Strategy, sources ...[]string) *Codebook {
	seen := make(map[string]struct{})
	var keys []string
	for _, src := range sources {
		for _, k := range src {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}

	if strategy == Sorted {
		naturalSort(keys)
	}

	cb := &Codebook{
		codes: make(map[string]int, len(keys)),
		keys:  keys,
	}
	for i, k := range keys {
		cb.codes[k] = i
	}
	return cb
}

// Code returns the code of key
func (c *Codebook) Code(key string) (int, bool) {
	code, ok := c.codes[key]
	return code, ok
}

// Key returns the key of code
func (c *Codebook) Key(code int) (string, bool) {
	if code < 0 || code >= len(c.keys) {
		return "", false
	}
	return c.keys[code], true
}

// Len returns the number of distinct keys
func (c *Codebook) Len() int {
	return len(c.keys)
}

// Keys returns the keys in code order
func (c *Codebook) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// naturalSort orders keys numerically when every key is a number and
// lexicographically otherwise.
func naturalSort(keys []string) {
	nums := make([]float64, len(keys))
	numeric := true
	for i, k := range keys {
		f, err := strconv.ParseFloat(k, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = f
	}

	if !numeric {
		sort.Strings(keys)
		return
	}

	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return nums[idx[a]] < nums[idx[b]]
	})
	sorted := make([]string, len(keys))
	for i, j := range idx {
		sorted[i] = keys[j]
	}
	copy(keys, sorted)
}
