package rules

import "github.com/pkg/errors"

// MutationScale normalizes spontaneous births so a whole board expects
// 1/MutationScale of them per tick, whatever its size.
const MutationScale = 10

// ErrPendingCell is returned when a transition is requested for a cell that
// still holds an uncommitted Growing or Dieing state.
var ErrPendingCell = errors.New("cell has an uncommitted transition")

// RandomSource is the subset of *rand.Rand used for mutation draws
type RandomSource interface {
	Float64() float64
}

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

/*
NextState proposes the next value of a committed cell.

A live cell with fewer than two or more than three live neighbors turns Dieing,
otherwise it stays Alive. A dead cell with exactly three live neighbors turns
Growing. When mutate is set, any other dead cell turns Growing with probability p,
drawing once from src.

Pending cells are returned unchanged along with ErrPendingCell.
*/
func NextState(current Cell, neighbors int, mutate bool, p float64, src RandomSource) (Cell, error) {
	switch current {
	case Alive:
		if ApplyConwayRules(neighbors, true) {
			return Alive, nil
		}
		return Dieing, nil
	case Dead:
		if ApplyConwayRules(neighbors, false) {
			return Growing, nil
		}
		if mutate && Mutates(p, src) {
			return Growing, nil
		}
		return Dead, nil
	default:
		return current, errors.Wrapf(ErrPendingCell, "[NextState] cell %q", current.String())
	}
}

// Mutates draws once from src and reports success with probability p
func Mutates(p float64, src RandomSource) bool {
	if p <= 0 || src == nil {
		return false
	}
	return src.Float64() < p
}

// MutationProbability returns the per-cell chance of a spontaneous birth on a
// rows x columns board. Zero-area boards never mutate.
func MutationProbability(rows, columns int) float64 {
	if rows <= 0 || columns <= 0 {
		return 0
	}
	return 1 / float64(MutationScale*rows*columns)
}

// Commit resolves a pending cell into its committed state
func Commit(c Cell) Cell {
	switch c {
	case Alive, Growing:
		return Alive
	default:
		return Dead
	}
}
