package model

// Pattern is a named arrangement of live cells anchored at its top-left corner
type Pattern struct {
	Name  string
	Cells [][]bool
}

var (
	// BlockPattern is the 2x2 still life
	//	@@
	//	@@
	BlockPattern = Pattern{
		Name: "block",
		Cells: [][]bool{
			{true, true},
			{true, true},
		},
	}

	// GliderPattern travels one cell down and right every four generations
	//	 @
	//	  @
	//	@@@
	GliderPattern = Pattern{
		Name: "glider",
		Cells: [][]bool{
			{false, true, false},
			{false, false, true},
			{true, true, true},
		},
	}
)

// Rows returns the height of the pattern
func (p Pattern) Rows() int { return len(p.Cells) }

// Columns returns the width of the widest pattern row
func (p Pattern) Columns() (n int) {
	for _, line := range p.Cells {
		n = max(n, len(line))
	}
	return
}
