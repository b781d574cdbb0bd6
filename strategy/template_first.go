package strategy

import "github.com/arloliu/rundinner/types"

// TemplateFirst uses a template when one exists for the segment shape and falls back
// to constraint search otherwise.
type TemplateFirst struct {
	template *Template
	search   *ConstraintSearch
}

var _ types.RouteStrategy = (*TemplateFirst)(nil)

// NewTemplateFirst creates the default route strategy.
//
// Parameters:
//   - opts: Options forwarded to the fallback constraint search
//
// Returns:
//   - *TemplateFirst: Initialized strategy
//
// Example:
//
//	s := strategy.NewTemplateFirst(strategy.WithSearchLogger(logger))
//	calc := rundinner.NewCalculator(&cfg, rundinner.WithStrategy(s))
func NewTemplateFirst(opts ...ConstraintSearchOption) *TemplateFirst {
	return &TemplateFirst{
		template: NewTemplate(),
		search:   NewConstraintSearch(opts...),
	}
}

// Name returns "template-first".
func (tf *TemplateFirst) Name() string {
	return "template-first"
}

// Select returns the strategy used for a segment shape.
func (tf *TemplateFirst) Select(numCourses, size int) types.RouteStrategy {
	if tf.template.Supports(numCourses, size) {
		return tf.template
	}

	return tf.search
}

// BuildSegment delegates to the selected strategy.
func (tf *TemplateFirst) BuildSegment(schedule *types.Schedule, seg types.Segment) error {
	return tf.Select(len(seg.Rows), seg.Size()).BuildSegment(schedule, seg)
}
