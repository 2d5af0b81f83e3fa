package utils

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item and increments for subsequent items.
// Results are already sorted heaviest first, so position is the rank.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(min(i+1, 65535))
	}
	return ranks
}

// FormatWeight prints a weight the way dictionary files carry it: integral
// weights without a fraction, others with as many digits as needed.
func FormatWeight(w float64) string {
	if w == float64(int64(w)) && w < 1e15 {
		return FormatWithCommas(int64(w))
	}
	return strconvFloat(w)
}
