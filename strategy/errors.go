package strategy

import (
	"fmt"

	"github.com/arloliu/rundinner/types"
)

func unsupported(name string, seg types.Segment) error {
	return fmt.Errorf("%w: %s has no route for %d teams with %d courses",
		types.ErrUnsupportedSegment, name, seg.Size(), len(seg.Rows))
}

// checkSegment verifies that every row holds the same number of teams.
func checkSegment(seg types.Segment) error {
	if len(seg.Rows) < 2 {
		return fmt.Errorf("%w: segment %d has %d course rows", types.ErrInsufficientCourseDiversity, seg.Index, len(seg.Rows))
	}
	per := len(seg.Rows[0])
	for i, row := range seg.Rows {
		if len(row) != per || per == 0 {
			return fmt.Errorf("%w: segment %d row %d holds %d teams, want %d",
				types.ErrInvariantViolation, seg.Index, i, len(row), per)
		}
	}

	return nil
}
