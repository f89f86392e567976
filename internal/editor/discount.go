package editor

import "sync/atomic"

// discountSequences holds the display-discount schedule, one length-10
// sequence per sibling slot (original, clone-1, clone-2, clone-3). The
// phase advances with the batch counter so rerunning a batch lands a
// different rate at the same slot.
var discountSequences = [4][10]int{
	{2, 5, 10, 15, 20, 25, 30, 35, 40, 45},
	{15, 20, 25, 30, 35, 40, 45, 2, 5, 10},
	{25, 30, 35, 40, 45, 2, 5, 10, 15, 20},
	{35, 40, 45, 2, 5, 10, 15, 20, 25, 30},
}

// SiblingSlots is the number of siblings produced per source product.
const SiblingSlots = 4

// RateForSlot picks the discount rate for one sibling slot.
// typeOccurrence counts how many sources of this batch preceded it;
// batchCounter is the process-lifetime batch number starting at 1.
func RateForSlot(slot, typeOccurrence, batchCounter int) int {
	batchOffset := 0
	if batchCounter > 0 {
		batchOffset = batchCounter - 1
	}
	seq := discountSequences[slot%SiblingSlots]
	idx := (typeOccurrence + batchOffset) % len(seq)
	if idx < 0 {
		idx += len(seq)
	}
	return seq[idx]
}

// RateForProduct picks the discount rate for the productIndex-th sibling
// of a batch, where siblings are numbered globally (slot = index mod 4,
// occurrence = index div 4).
func RateForProduct(productIndex, batchCounter int) int {
	return RateForSlot(productIndex%SiblingSlots, productIndex/SiblingSlots, batchCounter)
}

// BatchCounter is a process-lifetime monotonic batch number. It never
// resets; determinism of the discount schedule depends on it only moving
// forward.
type BatchCounter struct {
	n atomic.Int64
}

// Next advances the counter and returns the new batch number (1-based).
func (b *BatchCounter) Next() int {
	return int(b.n.Add(1))
}

// Current returns the last issued batch number, 0 before any batch.
func (b *BatchCounter) Current() int {
	return int(b.n.Load())
}
