package pocketing

// collectOverlays implements spec.md §4.9: flattens the fillet,
// tight-radius, slowdown, and trochoid overlays emitted by the earlier
// stages into one ordered list, preserving traversal order.
func collectOverlays(groups ...[]Overlay) []Overlay {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	out := make([]Overlay, 0, total)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
