package viewer

import "slices"

// LODPreview buckets a face digest into a histogram spanning its value
// range. It returns nil for an empty digest or a non-positive bucket count.
func LODPreview(digest []int, buckets int) []int {
	if len(digest) == 0 || buckets <= 0 {
		return nil
	}

	lo, hi := slices.Min(digest), slices.Max(digest)
	span := hi - lo + 1
	hist := make([]int, buckets)
	for _, v := range digest {
		hist[(v-lo)*buckets/span]++
	}
	return hist
}
