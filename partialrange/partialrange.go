// Copyright (c) 2016 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package partialrange computes the deterministic, contiguous window of
// worker peers a single exit router should hold open for a service, given
// the sorted set of exit relays and the sorted set of worker host-ports.
//
// This is the fan-out reduction at the heart of partial affinity: instead of
// every exit connecting to every worker (a full mesh of relays×workers
// connections), each exit owns only a window sized so that every worker is
// held by at least minPeersPerWorker relays and every relay holds at least
// minPeersPerRelay workers.
package partialrange

import (
	"math"
	"sort"
)

// Range describes one relay's deterministic slice of a service's workers.
type Range struct {
	RelayIndex int
	Ratio      float64
	Length     int
	Start      int
	Stop       int

	// AffineWorkers is the subset of the workers slice owned by this
	// relay. Wrap-around indexing means it is not necessarily
	// workers[Start:Stop] when Stop > len(workers).
	AffineWorkers []string

	// Valid is false when the relay computing the range does not appear
	// in the relays slice; recompute on the next ring reconciliation tick.
	Valid bool
}

// Compute derives the Range for relayHostPort within relays, over workers.
// relays and workers need not be pre-sorted; Compute sorts copies of both.
func Compute(relays, workers []string, relayHostPort string, minPeersPerWorker, minPeersPerRelay int) Range {
	sortedRelays := sortedCopy(relays)
	sortedWorkers := sortedCopy(workers)

	relayIndex := indexOf(sortedRelays, relayHostPort)
	if relayIndex < 0 {
		return Range{Valid: false}
	}

	if len(sortedWorkers) == 0 || len(sortedRelays) == 0 {
		return Range{RelayIndex: relayIndex, Valid: true}
	}

	ratio := float64(len(sortedWorkers)) / float64(len(sortedRelays))

	length := int(math.Ceil(ratio * float64(minPeersPerWorker)))
	if length < minPeersPerRelay {
		length = minPeersPerRelay
	}
	if length > len(sortedWorkers) {
		length = len(sortedWorkers)
	}

	start := int(math.Floor(float64(relayIndex)*ratio)) % len(sortedWorkers)
	stop := start + length

	affine := make([]string, length)
	for i := 0; i < length; i++ {
		affine[i] = sortedWorkers[(start+i)%len(sortedWorkers)]
	}

	return Range{
		RelayIndex:    relayIndex,
		Ratio:         ratio,
		Length:        length,
		Start:         start,
		Stop:          stop,
		AffineWorkers: affine,
		Valid:         true,
	}
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func indexOf(sorted []string, target string) int {
	i := sort.SearchStrings(sorted, target)
	if i < len(sorted) && sorted[i] == target {
		return i
	}
	return -1
}
