package stitch

// Filter greedily selects labels, in order, whose cumulative width plus
// inter-label spacing stays within maxPt. A label that would overflow is
// skipped and the scan continues, so a narrower later label may still be
// accepted; accepted labels are never reordered or revisited. Spacing is
// charged ahead of every label except the first accepted one. Returns the
// accepted and skipped indexes into widthsPt, each in input order.
func Filter(widthsPt []float64, spacingPt, maxPt float64) (accepted, skipped []int) {
	var cumulative float64
	for i, width := range widthsPt {
		need := width
		if len(accepted) > 0 {
			need += spacingPt
		}
		if cumulative+need > maxPt {
			skipped = append(skipped, i)
			continue
		}
		cumulative += need
		accepted = append(accepted, i)
	}
	return accepted, skipped
}
