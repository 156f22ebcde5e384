package pager

// OptimalDegree returns a degree hint that keeps one internal node
// within pageSize: header (bool is_leaf + uint16 degree + uint16 size =
// 5 bytes) plus D keys (4 bytes each) plus D+1 children (4 bytes each).
// Degree is supplied externally by the caller; this is a convenience,
// not a requirement.
func OptimalDegree(pageSize int) int {
	return (pageSize - 9) / 8
}
