package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/rundinner/types"
)

// YAMLFile reads participants from a YAML registration file.
//
// The file is read on every ListParticipants call, so edits between calculations are
// picked up. The expected layout is:
//
//	participants:
//	  - number: 1
//	    name: Ada
//	    email: ada@example.com
//	    gender: female
//	    seats: 6
//	  - name: Linus
//	    gender: m
//
// Missing numbers are assigned from the position in the file (1-based). Missing seat
// counts mean unknown.
type YAMLFile struct {
	path string
}

var _ types.ParticipantSource = (*YAMLFile)(nil)

// registration is the file form of one participant.
type registration struct {
	Number int          `yaml:"number"`
	Name   string       `yaml:"name"`
	Email  string       `yaml:"email"`
	Gender types.Gender `yaml:"gender"`
	Seats  *int         `yaml:"seats"`
}

type registrationFile struct {
	Participants []registration `yaml:"participants"`
}

// NewYAMLFile creates a participant source reading the given file.
//
// Parameters:
//   - path: Path of the registration file
//
// Returns:
//   - *YAMLFile: Source reading the file lazily
//
// Example:
//
//	src := source.NewYAMLFile("registrations.yaml")
//	result, err := calc.Calculate(ctx, src)
func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

// Path returns the file the source reads.
func (f *YAMLFile) Path() string {
	return f.path
}

// ListParticipants reads and decodes the registration file.
//
// Parameters:
//   - ctx: Checked before the file is read
//
// Returns:
//   - []*types.Participant: Participants in file order
//   - error: Read error, or ErrInvalidConfig for malformed content and duplicate numbers
func (f *YAMLFile) ListParticipants(ctx context.Context) ([]*types.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read participants %s: %w", f.path, err)
	}

	participants, err := ParseParticipants(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}

	return participants, nil
}

// ParseParticipants decodes a registration document.
//
// Parameters:
//   - data: YAML document in the YAMLFile layout
//
// Returns:
//   - []*types.Participant: Participants in document order
//   - error: ErrInvalidConfig for malformed content, unknown keys, negative numbers or
//     duplicate numbers
func ParseParticipants(data []byte) ([]*types.Participant, error) {
	var file registrationFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidConfig, err)
	}

	result := make([]*types.Participant, 0, len(file.Participants))
	seen := make(map[int]bool, len(file.Participants))
	for i, r := range file.Participants {
		p := types.NewParticipant(r.Number)
		if p.Number == 0 {
			p.Number = i + 1
		}
		if p.Number < 0 {
			return nil, fmt.Errorf("%w: participant %d has negative number %d", types.ErrInvalidConfig, i+1, p.Number)
		}
		if seen[p.Number] {
			return nil, fmt.Errorf("%w: duplicate participant number %d", types.ErrInvalidConfig, p.Number)
		}
		seen[p.Number] = true

		p.Name = r.Name
		p.Email = r.Email
		p.Gender = r.Gender
		if r.Seats != nil {
			p.Seats = *r.Seats
		}

		result = append(result, p)
	}

	return result, nil
}
