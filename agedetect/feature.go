package agedetect

// Feature is one structurally non-zero entry of a sparse follow matrix:
// the 1-based column index of a followed account and its value
// (1 for binary follow data).
type Feature interface {
	GetIndex() int
	GetValue() float64
}

// FeatureNode implements a Feature
type FeatureNode struct {
	index int
	value float64
}

// NewFeatureNode returns a new FeatureNode
func NewFeatureNode(index int, value float64) *FeatureNode {
	return &FeatureNode{
		index: index,
		value: value,
	}
}

// Follows is shorthand for the binary case: the user follows account index.
func Follows(index int) *FeatureNode {
	return NewFeatureNode(index, 1)
}

// GetIndex does just that
func (f *FeatureNode) GetIndex() int {
	return f.index
}

// GetValue does just that
func (f *FeatureNode) GetValue() float64 {
	return f.value
}
