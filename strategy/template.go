package strategy

import (
	"fmt"

	"github.com/arloliu/rundinner/types"
)

// Template builds segments from precomputed combinatorial designs.
type Template struct{}

var _ types.RouteStrategy = (*Template)(nil)

// table lists, per course row, the host position followed by its guest positions.
// Positions are 1-based over the whole segment: row r covers r*per+1 .. (r+1)*per.
type table [][][]int

type tableKey struct {
	courses int
	size    int
}

var tables = map[tableKey]table{
	{2, 4}: {
		{{1, 3}, {2, 4}},
		{{3, 2}, {4, 1}},
	},
	{2, 6}: {
		{{1, 4}, {2, 6}, {3, 5}},
		{{4, 3}, {5, 2}, {6, 1}},
	},
	{3, 9}: {
		{{1, 4, 7}, {2, 5, 8}, {3, 6, 9}},
		{{4, 2, 9}, {5, 3, 7}, {6, 1, 8}},
		{{7, 2, 6}, {8, 3, 4}, {9, 1, 5}},
	},
	{3, 12}: {
		{{1, 7, 12}, {2, 5, 10}, {3, 8, 11}, {4, 6, 9}},
		{{5, 1, 9}, {6, 3, 10}, {7, 4, 11}, {8, 2, 12}},
		{{9, 2, 7}, {10, 4, 8}, {11, 1, 6}, {12, 3, 5}},
	},
	{3, 15}: {
		{{1, 8, 12}, {2, 9, 15}, {3, 6, 14}, {4, 7, 13}, {5, 10, 11}},
		{{6, 1, 15}, {7, 5, 12}, {8, 2, 11}, {9, 3, 13}, {10, 4, 14}},
		{{11, 1, 9}, {12, 4, 6}, {13, 2, 10}, {14, 5, 8}, {15, 3, 7}},
	},
}

// NewTemplate creates a template strategy.
//
// Returns:
//   - *Template: Strategy using the built-in tables
//
// Example:
//
//	calc := rundinner.NewCalculator(&cfg, rundinner.WithStrategy(strategy.NewTemplate()))
func NewTemplate() *Template {
	return &Template{}
}

// Name returns "template".
func (t *Template) Name() string {
	return "template"
}

// Supports reports whether a table exists for the segment shape.
func (t *Template) Supports(numCourses, size int) bool {
	_, ok := tables[tableKey{numCourses, size}]
	return ok
}

// BuildSegment applies the table of the segment's shape to its teams.
//
// Table positions are mapped row by row onto the teams of the segment, which are
// ordered by number within each row.
//
// Parameters:
//   - schedule: Schedule owning the teams
//   - seg: Segment to build
//
// Returns:
//   - error: ErrUnsupportedSegment if no table exists for the segment shape
func (t *Template) BuildSegment(schedule *types.Schedule, seg types.Segment) error {
	if err := checkSegment(seg); err != nil {
		return err
	}

	tbl, ok := tables[tableKey{len(seg.Rows), seg.Size()}]
	if !ok {
		return unsupported(t.Name(), seg)
	}

	per := len(seg.Rows[0])
	at := func(pos int) *types.Team {
		return seg.Rows[(pos-1)/per][(pos-1)%per]
	}

	for _, row := range tbl {
		for _, entry := range row {
			host := at(entry[0])
			for _, g := range entry[1:] {
				if err := schedule.AddHostReference(at(g), host); err != nil {
					return fmt.Errorf("segment %d: %w", seg.Index, err)
				}
			}
		}
	}

	return nil
}
