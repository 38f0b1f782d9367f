package model

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/transient-life/rules"
	"github.com/sheikhrachel/transient-life/utils"
)

const stagnationWindow = 5

var (
	// ErrBoardTooSmall is returned when a preset does not fit on the board
	ErrBoardTooSmall = errors.New("board too small for pattern")

	// ErrPendingTransition is returned by Step when the previous step was not committed by Grow
	ErrPendingTransition = errors.New("step called before previous step was grown")
)

// BoardConfig describes the board dimensions and the mutation rule
type BoardConfig struct {
	Rows           int
	Columns        int
	RandomMutation bool
}

// Population holds the number of cells in each state
type Population struct {
	Alive   int
	Dead    int
	Growing int
	Dieing  int
}

// Option customizes a Board at construction
type Option func(*Board)

// WithRand sets the source used for Random and spontaneous mutation
func WithRand(src rules.RandomSource) Option {
	return func(b *Board) { b.rng = src }
}

// WithSeed uses a deterministic source seeded with seed
func WithSeed(seed int64) Option {
	return WithRand(utils.NewRNG(seed))
}

// WithPool takes step buffers from pool instead of keeping a private spare grid
func WithPool(pool *GridPool) Option {
	return func(b *Board) { b.pool = pool }
}

// WithParallel evaluates Step in row bands across all CPUs
func WithParallel(on bool) Option {
	return func(b *Board) { b.parallel = on }
}

// Board owns a grid and runs the two phase step/grow update over it
type Board struct {
	config     BoardConfig
	grid       *Grid
	spare      *Grid
	rng        rules.RandomSource
	pool       *GridPool
	parallel   bool
	pending    bool
	generation int
	history    []string // Store recent committed grid hashes for cycle detection
}

// NewBoard creates a board from config with every cell Dead.
// Negative dimensions are treated as zero, which gives an empty board.
func NewBoard(config BoardConfig, opts ...Option) *Board {
	config.Rows = max(config.Rows, 0)
	config.Columns = max(config.Columns, 0)

	b := &Board{config: config}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = utils.NewProcessRNG()
	}

	if b.pool != nil {
		b.grid = b.pool.Get(config.Rows, config.Columns)
	} else {
		b.grid = NewGrid(config.Rows, config.Columns)
	}
	return b
}

// Config returns a copy of the board configuration
func (b *Board) Config() BoardConfig { return b.config }

// Rows returns the number of rows of the board
func (b *Board) Rows() int { return b.config.Rows }

// Columns returns the number of columns of the board
func (b *Board) Columns() int { return b.config.Columns }

// Cell returns the state at (r, c), Dead when off the board
func (b *Board) Cell(r, c int) rules.Cell { return b.grid.Get(r, c) }

// Grid exposes the current grid for renderers. Callers must not keep it
// across Step, which swaps in a new buffer.
func (b *Board) Grid() *Grid { return b.grid }

// Pending reports whether a Step is waiting for its Grow
func (b *Board) Pending() bool { return b.pending }

// Generation returns the number of committed steps
func (b *Board) Generation() int { return b.generation }

// Counts tallies the board by cell state
func (b *Board) Counts() Population { return b.grid.Counts() }

// Hash returns a digest of the current grid
func (b *Board) Hash() string { return b.grid.GetGridHash() }

// SetRandomMutation enables or disables spontaneous births
func (b *Board) SetRandomMutation(on bool) *Board {
	b.config.RandomMutation = on
	return b
}

// ToggleRandomMutation flips the mutation rule and returns the new setting
func (b *Board) ToggleRandomMutation() bool {
	b.config.RandomMutation = !b.config.RandomMutation
	return b.config.RandomMutation
}

// Random sets each cell Alive with probability one half, leaving the rest as they are
func (b *Board) Random() *Board {
	b.grid.Randomize(0.5, b.rng)
	return b
}

// Fill sets every cell Alive
func (b *Board) Fill() *Board {
	b.grid.Fill(rules.Alive)
	b.pending = false
	return b
}

// Clear sets every cell Dead
func (b *Board) Clear() *Board {
	b.grid.Clear()
	b.pending = false
	b.history = nil
	return b
}

// Block places a 2x2 block at the top-left corner
func (b *Board) Block() (*Board, error) {
	if err := b.place(BlockPattern); err != nil {
		return b, errors.Wrap(err, "[Block]")
	}
	return b, nil
}

// Glider places a glider at the top-left corner
func (b *Board) Glider() (*Board, error) {
	if err := b.place(GliderPattern); err != nil {
		return b, errors.Wrap(err, "[Glider]")
	}
	return b, nil
}

func (b *Board) place(p Pattern) error {
	if b.config.Rows < p.Rows() || b.config.Columns < p.Columns() {
		return errors.Wrapf(ErrBoardTooSmall, "%s needs at least %dx%d, board is %dx%d",
			p.Name, p.Rows(), p.Columns(), b.config.Rows, b.config.Columns)
	}
	b.grid.Stamp(0, 0, p)
	return nil
}

/*
Step proposes the next generation.

Every cell is evaluated against the grid as it was before the call, and the
result is written to a separate buffer. Afterwards cells may be Growing or
Dieing until Grow commits them. Calling Step again before Grow returns
ErrPendingTransition and leaves the board unchanged.
*/
func (b *Board) Step() error {
	if b.pending {
		return errors.Wrapf(ErrPendingTransition, "[Step] generation %d", b.generation)
	}

	next := b.buffer()

	var err error
	if b.parallel {
		err = b.proposeParallel(next)
	} else {
		err = b.propose(next, 0, b.config.Rows, b.config.RandomMutation)
	}
	if err != nil {
		b.release(next)
		return errors.Wrap(err, "[Step] failed to propose next generation")
	}

	b.release(b.grid)
	b.grid = next
	b.pending = true
	return nil
}

// Grow commits a proposed generation: Growing cells become Alive and Dieing cells become Dead
func (b *Board) Grow() *Board {
	for r := range b.config.Rows {
		for c := range b.config.Columns {
			b.grid.cells[r][c] = rules.Commit(b.grid.cells[r][c])
		}
	}
	if b.pending {
		b.pending = false
		b.generation++
	}
	return b
}

// StepAndGrow advances one full generation
func (b *Board) StepAndGrow() error {
	if err := b.Step(); err != nil {
		return err
	}
	b.Grow()
	return nil
}

// propose evaluates rows [start, end) of the current grid into next
func (b *Board) propose(next *Grid, start, end int, mutate bool) error {
	p := rules.MutationProbability(b.config.Rows, b.config.Columns)
	for r := start; r < end; r++ {
		for c := range b.config.Columns {
			cell, err := rules.NextState(b.grid.cells[r][c], b.grid.CountLiveNeighbors(r, c), mutate, p, b.rng)
			if err != nil {
				return errors.Wrapf(err, "[propose] at (%d, %d)", r, c)
			}
			next.cells[r][c] = cell
		}
	}
	return nil
}

// proposeParallel evaluates the grid in row bands, then draws mutations in
// row-major order so a seeded board matches the sequential result
func (b *Board) proposeParallel(next *Grid) error {
	var (
		eg            errgroup.Group
		rows          = b.config.Rows
		numWorkers    = runtime.NumCPU()
		rowsPerWorker = (rows + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, rows)
		)
		if startRow >= rows {
			break
		}

		eg.Go(func() error {
			return b.propose(next, startRow, endRow, false)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	if b.config.RandomMutation {
		b.mutate(next)
	}
	return nil
}

// mutate gives every dead cell that was not born this step its mutation draw
func (b *Board) mutate(next *Grid) {
	p := rules.MutationProbability(b.config.Rows, b.config.Columns)
	for r := range b.config.Rows {
		for c := range b.config.Columns {
			if next.cells[r][c].IsDead() && rules.Mutates(p, b.rng) {
				next.cells[r][c] = rules.Growing
			}
		}
	}
}

func (b *Board) buffer() *Grid {
	if b.pool != nil {
		return b.pool.Get(b.config.Rows, b.config.Columns)
	}
	if b.spare != nil {
		g := b.spare
		b.spare = nil
		return g
	}
	return NewGrid(b.config.Rows, b.config.Columns)
}

func (b *Board) release(g *Grid) {
	if b.pool != nil {
		GridToPool(g, b.pool)
		return
	}
	b.spare = g
}

// UpdateHistory records the current grid and keeps the last few states
func (b *Board) UpdateHistory() {
	b.history = append(b.history, b.Hash())

	if len(b.history) > stagnationWindow {
		b.history = b.history[1:]
	}
}

// IsStagnant reports whether the grid repeats one of its last three recorded states
func (b *Board) IsStagnant() bool {
	if len(b.history) < 3 {
		return false
	}

	currentHash := b.Hash()
	for i := 1; i <= 3; i++ {
		if b.history[len(b.history)-i] == currentHash {
			return true
		}
	}
	return false
}

// Display renders the board framed by a border, one character per cell
func (b *Board) Display() string {
	var (
		sb     strings.Builder
		border = " " + strings.Repeat("-", b.config.Columns) + " "
	)
	sb.Grow((b.config.Rows + 2) * (b.config.Columns + 3))

	sb.WriteString(border)
	sb.WriteByte('\n')
	for r := range b.config.Rows {
		sb.WriteByte('|')
		for c := range b.config.Columns {
			sb.WriteRune(b.grid.cells[r][c].Rune())
		}
		sb.WriteByte('|')
		sb.WriteByte('\n')
	}
	sb.WriteString(border)

	return sb.String()
}
