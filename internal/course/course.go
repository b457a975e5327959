package course

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/povarna/sonar-sweep/internal/batch"
	"github.com/povarna/sonar-sweep/internal/models"
)

var ErrInvalidInstruction = errors.New("invalid instruction")

type Direction string

const (
	Forward Direction = "forward"
	Up      Direction = "up"
	Down    Direction = "down"
)

var instructionPattern = regexp.MustCompile(`^(forward|up|down) (\d+)$`)

type Instruction struct {
	Direction Direction `json:"direction"`
	Magnitude int       `json:"magnitude"`
}

func (i Instruction) String() string {
	return fmt.Sprintf("%s %d", i.Direction, i.Magnitude)
}

// ParseInstruction parses a line of the form "<forward|up|down> <magnitude>".
func ParseInstruction(line string) (Instruction, error) {
	m := instructionPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Instruction{}, fmt.Errorf("%w: %q", ErrInvalidInstruction, line)
	}

	magnitude, err := strconv.Atoi(m[2])
	if err != nil {
		return Instruction{}, fmt.Errorf("%w: magnitude %q: %v", ErrInvalidInstruction, m[2], err)
	}

	return Instruction{Direction: Direction(m[1]), Magnitude: magnitude}, nil
}

// Position is the submarine location. Depth grows downwards.
type Position struct {
	Horizontal int `json:"horizontal"`
	Depth      int `json:"depth"`
}

func (p *Position) Apply(in Instruction) {
	switch in.Direction {
	case Forward:
		p.Horizontal += in.Magnitude
	case Up:
		p.Depth -= in.Magnitude
	case Down:
		p.Depth += in.Magnitude
	}
}

func (p Position) Product() int {
	return p.Horizontal * p.Depth
}

// Step is the position reached after one instruction.
type Step struct {
	Instruction Instruction `json:"instruction"`
	Position    Position    `json:"position"`
}

func (s Step) Lines() []string {
	return []string{
		fmt.Sprintf("Move: %s", s.Instruction),
		fmt.Sprintf("Forward: %d; Depth: %d", s.Position.Horizontal, s.Position.Depth),
		fmt.Sprintf("Product %d", s.Position.Product()),
	}
}

// Plot applies instructions in order from the surface and returns every
// intermediate step.
func Plot(instructions []Instruction) []Step {
	steps := make([]Step, 0, len(instructions))
	var pos Position
	for _, in := range instructions {
		pos.Apply(in)
		steps = append(steps, Step{Instruction: in, Position: pos})
	}
	return steps
}

// ParseAll parses every line, failing on the first malformed one.
// Blank lines are skipped.
func ParseAll(lines []string) ([]Instruction, error) {
	instructions := make([]Instruction, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		in, err := ParseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i+1, err)
		}
		instructions = append(instructions, in)
	}
	return instructions, nil
}

// Final returns the position after all instructions.
func Final(instructions []Instruction) Position {
	var pos Position
	for _, in := range instructions {
		pos.Apply(in)
	}
	return pos
}

// Collect drains numbered source lines and fails on the first read error or
// malformed instruction, naming its line in the source.
func Collect(lines <-chan batch.Line) ([]Instruction, error) {
	var instructions []Instruction
	var firstErr error

	for line := range lines {
		if firstErr != nil {
			continue
		}
		if line.Error != nil {
			firstErr = line.Error
			continue
		}
		in, err := ParseInstruction(line.Text)
		if err != nil {
			firstErr = fmt.Errorf("line %d: %w", line.Number, err)
			continue
		}
		instructions = append(instructions, in)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return instructions, nil
}

// Summarize plots instructions and reports the final position.
func Summarize(instructions []Instruction) models.CourseResult {
	pos := Final(instructions)
	return models.CourseResult{
		Moves:      len(instructions),
		Horizontal: pos.Horizontal,
		Depth:      pos.Depth,
		Product:    pos.Product(),
	}
}
