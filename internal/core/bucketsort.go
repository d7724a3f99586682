package core

// bucketsort.go orders validated records by an integer field.
//
// The distribution step spreads items over n buckets of width max/n, so for
// uniformly distributed keys each bucket holds O(1) items and the whole sort
// is close to O(n). Colliding keys share a bucket, and the per-bucket
// insertion sort degrades to O(n^2) when every key is equal.

import "math"

// BucketSort returns a new slice holding items in ascending key order.
// The sort is stable and does not modify items.
//
// Keys are expected to be non-negative. If the maximum key is zero or
// negative every item goes into the first bucket, which still yields a
// correct (insertion-sorted) result.
func BucketSort[T any](items []T, key func(T) int) []T {
	n := len(items)
	if n == 0 {
		return []T{}
	}

	maxValue := key(items[0])
	for _, it := range items[1:] {
		if k := key(it); k > maxValue {
			maxValue = k
		}
	}

	width := float64(maxValue) / float64(n)
	buckets := make([][]T, n)

	for _, it := range items {
		idx := bucketIndex(key(it), width, n)
		buckets[idx] = append(buckets[idx], it)
	}

	result := make([]T, 0, n)
	for _, b := range buckets {
		insertionSort(b, key)
		result = append(result, b...)
	}
	return result
}

// bucketIndex maps a key to floor(key/width), clamped into [0, n-1].
// The upper clamp catches the maximum element, whose index equals n.
func bucketIndex(k int, width float64, n int) int {
	if width <= 0 {
		return 0
	}
	idx := int(math.Floor(float64(k) / width))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// insertionSort sorts data in place by key. Equal keys keep their order.
func insertionSort[T any](data []T, key func(T) int) {
	for i := 1; i < len(data); i++ {
		item := data[i]
		k := key(item)
		j := i - 1
		for j >= 0 && key(data[j]) > k {
			data[j+1] = data[j]
			j--
		}
		data[j+1] = item
	}
}

// SortRecords orders records by the field selected by key.
// SortNone returns a copy in input order.
func SortRecords(records []Record, key SortKey) []Record {
	switch key {
	case SortByWeight:
		return BucketSort(records, func(r Record) int { return r.Weight.Key() })
	case SortByAge:
		return BucketSort(records, func(r Record) int { return r.Age.Key() })
	default:
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}
}
