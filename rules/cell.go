package rules

// Cell is the state of a single grid position.
//
// Alive and Dead are committed states. Growing and Dieing are pending: they
// are produced by a propose step and resolved by the matching commit.
type Cell uint8

const (
	Dead Cell = iota
	Alive
	Growing
	Dieing
)

const (
	glyphAlive   = '@'
	glyphDead    = ' '
	glyphGrowing = '+'
	glyphDieing  = '#'
)

// IsAlive reports whether the cell is committed alive
func (c Cell) IsAlive() bool { return c == Alive }

// IsDead reports whether the cell is committed dead
func (c Cell) IsDead() bool { return c == Dead }

// IsAliveOrDieing reports whether the cell counts as alive for its neighbors.
// A dieing cell is still alive until the tick is committed.
func (c Cell) IsAliveOrDieing() bool { return c == Alive || c == Dieing }

// IsPending reports whether the cell is waiting for a commit
func (c Cell) IsPending() bool { return c == Growing || c == Dieing }

// Rune returns the character used by the text renderer
func (c Cell) Rune() rune {
	switch c {
	case Alive:
		return glyphAlive
	case Growing:
		return glyphGrowing
	case Dieing:
		return glyphDieing
	default:
		return glyphDead
	}
}

func (c Cell) String() string { return string(c.Rune()) }
