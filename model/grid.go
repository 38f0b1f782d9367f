package model

import (
	"crypto/md5"
	"fmt"

	"github.com/sheikhrachel/transient-life/rules"
)

// Neighbor order used by Grid.Neighbors: N, NE, E, SE, S, SW, W, NW
var neighborOffsets = [8][2]int{
	{-1, 0},
	{-1, 1},
	{0, 1},
	{1, 1},
	{1, 0},
	{1, -1},
	{0, -1},
	{-1, -1},
}

// Grid is a fixed size, row-major array of cells with dead edges
type Grid struct {
	rows    int
	columns int
	cells   [][]rules.Cell
}

// NewGrid creates a new grid with the specified dimensions, every cell Dead
func NewGrid(rows, columns int) *Grid {
	g := &Grid{}
	g.Reset(rows, columns)
	return g
}

// Rows returns the number of rows of the grid
func (g *Grid) Rows() int {
	return g.rows
}

// Columns returns the number of columns of the grid
func (g *Grid) Columns() int {
	return g.columns
}

// Reset resets the grid to new dimensions
func (g *Grid) Reset(rows, columns int) {
	rows, columns = max(rows, 0), max(columns, 0)
	g.rows = rows
	g.columns = columns

	// Resize cells if needed
	if len(g.cells) != rows {
		g.cells = make([][]rules.Cell, rows)
	}
	for r := range g.cells {
		if len(g.cells[r]) != columns {
			g.cells[r] = make([]rules.Cell, columns)
		} else {
			clear(g.cells[r])
		}
	}
}

// Clear sets every cell Dead
func (g *Grid) Clear() {
	g.Fill(rules.Dead)
}

// Fill sets every cell to c
func (g *Grid) Fill(c rules.Cell) {
	for r := range g.rows {
		for col := range g.columns {
			g.cells[r][col] = c
		}
	}
}

// InBounds reports whether (r, c) is a position of the grid
func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.columns
}

// Set sets the cell at (r, c); off-grid writes are ignored
func (g *Grid) Set(r, c int, cell rules.Cell) {
	if g.InBounds(r, c) {
		g.cells[r][c] = cell
	}
}

// Get returns the cell at (r, c); off-grid positions read as Dead
func (g *Grid) Get(r, c int) rules.Cell {
	if !g.InBounds(r, c) {
		return rules.Dead
	}
	return g.cells[r][c]
}

// Neighbors returns the Moore neighborhood of (r, c) ordered N, NE, E, SE, S, SW, W, NW.
// Neighbors beyond the edge of the grid are reported Dead.
func (g *Grid) Neighbors(r, c int) (out [8]rules.Cell) {
	for i, off := range neighborOffsets {
		out[i] = g.Get(r+off[0], c+off[1])
	}
	return out
}

// CountLiveNeighbors counts the neighbors of (r, c) that are Alive or Dieing
func (g *Grid) CountLiveNeighbors(r, c int) (count int) {
	for _, n := range g.Neighbors(r, c) {
		if n.IsAliveOrDieing() {
			count++
		}
	}
	return
}

// CopyFrom overwrites g with the dimensions and cells of src
func (g *Grid) CopyFrom(src *Grid) {
	g.Reset(src.rows, src.columns)
	for r := range src.cells {
		copy(g.cells[r], src.cells[r])
	}
}

// Equal reports whether both grids hold the same cells
func (g *Grid) Equal(other *Grid) bool {
	if g.rows != other.rows || g.columns != other.columns {
		return false
	}
	for r := range g.rows {
		for c := range g.columns {
			if g.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Counts tallies the grid by cell state
func (g *Grid) Counts() (counts Population) {
	for r := range g.rows {
		for c := range g.columns {
			switch g.cells[r][c] {
			case rules.Alive:
				counts.Alive++
			case rules.Dead:
				counts.Dead++
			case rules.Growing:
				counts.Growing++
			case rules.Dieing:
				counts.Dieing++
			}
		}
	}
	return
}

// GetGridHash returns an MD5 hash of the current grid state
func (g *Grid) GetGridHash() string {
	h := md5.New()
	row := make([]byte, g.columns)
	for r := range g.rows {
		for c := range g.columns {
			row[c] = byte(g.cells[r][c])
		}
		h.Write(row)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Randomize sets each cell Alive with probability density, drawing once per cell
func (g *Grid) Randomize(density float64, src rules.RandomSource) {
	for r := range g.rows {
		for c := range g.columns {
			if src.Float64() < density {
				g.cells[r][c] = rules.Alive
			}
		}
	}
}

// Stamp sets the live cells of pattern with its top-left corner at (r, c)
func (g *Grid) Stamp(r, c int, pattern Pattern) {
	for dr, line := range pattern.Cells {
		for dc, alive := range line {
			if alive {
				g.Set(r+dr, c+dc, rules.Alive)
			}
		}
	}
}
