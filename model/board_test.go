package model

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/transient-life/rules"
)

func newTestBoard(rows, columns int, opts ...Option) *Board {
	opts = append([]Option{WithSeed(42)}, opts...)
	return NewBoard(BoardConfig{Rows: rows, Columns: columns}, opts...)
}

// expectAlive fails unless exactly the listed positions are Alive and the rest Dead
func expectAlive(t *testing.T, b *Board, alive [][2]int) {
	t.Helper()

	expects := map[[2]int]bool{}
	for _, pos := range alive {
		expects[pos] = true
	}
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Columns(); c++ {
			want := rules.Dead
			if expects[[2]int{r, c}] {
				want = rules.Alive
			}
			if got := b.Cell(r, c); got != want {
				t.Fatalf("cell (%d,%d) is %q, expected %q", r, c, got, want)
			}
		}
	}
}

func TestNewBoardIsDead(t *testing.T) {
	b := newTestBoard(4, 7)
	if counts := b.Counts(); counts.Dead != 28 || counts.Alive != 0 {
		t.Fatalf("new board counts %+v, expected 28 dead", counts)
	}
}

func TestBlockPreset(t *testing.T) {
	for _, size := range [][2]int{{2, 2}, {3, 5}, {10, 4}} {
		b, err := newTestBoard(size[0], size[1]).Block()
		if err != nil {
			t.Fatalf("%dx%d: unexpected error %v", size[0], size[1], err)
		}
		expectAlive(t, b, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}})
	}
}

func TestGliderPreset(t *testing.T) {
	for _, size := range [][2]int{{3, 3}, {5, 8}} {
		b, err := newTestBoard(size[0], size[1]).Glider()
		if err != nil {
			t.Fatalf("%dx%d: unexpected error %v", size[0], size[1], err)
		}
		expectAlive(t, b, [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}})
	}
}

func TestPresetsRejectUndersizedBoards(t *testing.T) {
	for _, size := range [][2]int{{1, 5}, {5, 1}, {0, 0}} {
		b := newTestBoard(size[0], size[1])
		if _, err := b.Block(); !errors.Is(err, ErrBoardTooSmall) {
			t.Fatalf("block on %dx%d: expected ErrBoardTooSmall, got %v", size[0], size[1], err)
		}
	}
	for _, size := range [][2]int{{2, 2}, {2, 9}, {9, 2}} {
		b := newTestBoard(size[0], size[1])
		if _, err := b.Glider(); !errors.Is(err, ErrBoardTooSmall) {
			t.Fatalf("glider on %dx%d: expected ErrBoardTooSmall, got %v", size[0], size[1], err)
		}
		if b.Counts().Alive != 0 {
			t.Fatalf("rejected glider wrote cells on %dx%d", size[0], size[1])
		}
	}
}

func TestFillClear(t *testing.T) {
	b := newTestBoard(3, 4).Fill()
	if counts := b.Counts(); counts.Alive != 12 {
		t.Fatalf("filled board counts %+v", counts)
	}
	b.Clear()
	if counts := b.Counts(); counts.Dead != 12 {
		t.Fatalf("cleared board counts %+v", counts)
	}
}

func TestRandomIsSeeded(t *testing.T) {
	a := newTestBoard(20, 20).Random()
	b := newTestBoard(20, 20).Random()
	if !a.Grid().Equal(b.Grid()) {
		t.Fatal("boards with the same seed randomized differently")
	}

	alive := a.Counts().Alive
	if alive < 100 || alive > 300 {
		t.Fatalf("random board has %d of 400 cells alive, expected about half", alive)
	}
}

func TestStepDeterministic(t *testing.T) {
	a := newTestBoard(16, 16).Random()
	b := newTestBoard(16, 16).Random()

	if err := a.Step(); err != nil {
		t.Fatal(err)
	}
	if err := b.Step(); err != nil {
		t.Fatal(err)
	}
	if !a.Grid().Equal(b.Grid()) {
		t.Fatal("identical grids proposed different steps")
	}
}

func TestStepUsesSnapshot(t *testing.T) {
	// The L shape gives the corner three live neighbors. If the corner
	// saw its own rewritten neighbors it would not be born.
	b := newTestBoard(3, 3)
	b.Grid().Set(0, 0, rules.Alive)
	b.Grid().Set(0, 1, rules.Alive)
	b.Grid().Set(1, 0, rules.Alive)

	if err := b.Step(); err != nil {
		t.Fatal(err)
	}
	if c := b.Cell(1, 1); c != rules.Growing {
		t.Fatalf("cell (1,1) is %q, expected Growing", c)
	}
	for _, pos := range [][2]int{{0, 0}, {0, 1}, {1, 0}} {
		if c := b.Cell(pos[0], pos[1]); c != rules.Alive {
			t.Fatalf("cell %v is %q, expected Alive", pos, c)
		}
	}

	b.Grow()
	expectAlive(t, b, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}})
}

func TestGrowCommitsTransitions(t *testing.T) {
	b := newTestBoard(12, 12).Random()
	if err := b.Step(); err != nil {
		t.Fatal(err)
	}

	proposed := NewGrid(12, 12)
	proposed.CopyFrom(b.Grid())
	b.Grow()

	for r := 0; r < 12; r++ {
		for c := 0; c < 12; c++ {
			want := proposed.Get(r, c)
			switch want {
			case rules.Growing:
				want = rules.Alive
			case rules.Dieing:
				want = rules.Dead
			}
			if got := b.Cell(r, c); got != want {
				t.Fatalf("cell (%d,%d) was %q and grew into %q, expected %q", r, c, proposed.Get(r, c), got, want)
			}
		}
	}
	if b.Pending() {
		t.Fatal("board still pending after Grow")
	}
	if b.Generation() != 1 {
		t.Fatalf("generation %d, expected 1", b.Generation())
	}
}

func TestDoubleStepIsRejected(t *testing.T) {
	b := newTestBoard(8, 8).Random()
	if err := b.Step(); err != nil {
		t.Fatal(err)
	}
	before := b.Hash()

	err := b.Step()
	if !errors.Is(err, ErrPendingTransition) {
		t.Fatalf("expected ErrPendingTransition, got %v", err)
	}
	if b.Hash() != before {
		t.Fatal("rejected step changed the grid")
	}

	b.Grow()
	if err := b.Step(); err != nil {
		t.Fatalf("step after grow failed: %v", err)
	}
}

func TestStepRejectsInjectedPendingCells(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		b := newTestBoard(6, 6, WithParallel(parallel))
		b.Grid().Set(3, 3, rules.Growing)
		before := b.Hash()

		if err := b.Step(); !errors.Is(err, rules.ErrPendingCell) {
			t.Fatalf("parallel=%v: expected ErrPendingCell, got %v", parallel, err)
		}
		if b.Hash() != before || b.Pending() {
			t.Fatalf("parallel=%v: failed step modified the board", parallel)
		}
	}
}

func TestBlockStillLife(t *testing.T) {
	b, err := newTestBoard(4, 4).Block()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := b.StepAndGrow(); err != nil {
			t.Fatal(err)
		}
		expectAlive(t, b, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}})
	}
}

func TestGliderTranslation(t *testing.T) {
	b, err := newTestBoard(10, 10).Glider()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if err := b.StepAndGrow(); err != nil {
			t.Fatal(err)
		}
	}
	expectAlive(t, b, [][2]int{{1, 2}, {2, 3}, {3, 1}, {3, 2}, {3, 3}})
}

func TestBlinkerOscillation(t *testing.T) {
	b := newTestBoard(5, 5)
	for r := 1; r <= 3; r++ {
		b.Grid().Set(r, 2, rules.Alive)
	}

	if err := b.Step(); err != nil {
		t.Fatal(err)
	}
	expects := map[[2]int]rules.Cell{
		{1, 2}: rules.Dieing,
		{3, 2}: rules.Dieing,
		{2, 2}: rules.Alive,
		{2, 1}: rules.Growing,
		{2, 3}: rules.Growing,
	}
	for pos, want := range expects {
		if got := b.Cell(pos[0], pos[1]); got != want {
			t.Fatalf("cell %v is %q, expected %q", pos, got, want)
		}
	}

	b.Grow()
	expectAlive(t, b, [][2]int{{2, 1}, {2, 2}, {2, 3}})
}

func TestNarrowBoards(t *testing.T) {
	single := newTestBoard(1, 1).Fill()
	if err := single.Step(); err != nil {
		t.Fatal(err)
	}
	if c := single.Cell(0, 0); c != rules.Dieing {
		t.Fatalf("lone cell is %q, expected Dieing", c)
	}

	row := newTestBoard(1, 5).Fill()
	if err := row.Step(); err != nil {
		t.Fatal(err)
	}
	if got := row.Display(); got != " ----- \n|#@@@#|\n ----- " {
		t.Fatalf("unexpected display:\n%s", got)
	}
	row.Grow()
	if got := row.Display(); got != " ----- \n| @@@ |\n ----- " {
		t.Fatalf("unexpected display:\n%s", got)
	}
}

func TestZeroAreaBoard(t *testing.T) {
	for _, size := range [][2]int{{0, 5}, {3, 0}, {-2, 4}} {
		b := newTestBoard(size[0], size[1]).Random().Fill().Clear()
		b.SetRandomMutation(true)
		if err := b.StepAndGrow(); err != nil {
			t.Fatalf("%dx%d: %v", size[0], size[1], err)
		}
		if counts := b.Counts(); counts != (Population{}) {
			t.Fatalf("%dx%d: empty board has cells %+v", size[0], size[1], counts)
		}
	}

	if got := newTestBoard(0, 3).Display(); got != " --- \n --- " {
		t.Fatalf("unexpected display %q", got)
	}
}

func TestDisplay(t *testing.T) {
	b, err := newTestBoard(3, 4).Block()
	if err != nil {
		t.Fatal(err)
	}
	b.Grid().Set(2, 2, rules.Growing)
	b.Grid().Set(2, 3, rules.Dieing)

	want := " ---- \n|@@  |\n|@@  |\n|  +#|\n ---- "
	if got := b.Display(); got != want {
		t.Fatalf("Display()=%q, expected %q", got, want)
	}
}

func TestDeadBoardStaysDeadWithoutMutation(t *testing.T) {
	b := newTestBoard(20, 20)
	for i := 0; i < 50; i++ {
		if err := b.StepAndGrow(); err != nil {
			t.Fatal(err)
		}
	}
	if counts := b.Counts(); counts.Dead != 400 {
		t.Fatalf("dead board came alive: %+v", counts)
	}
}

func TestMutationRevivesDeadBoard(t *testing.T) {
	// Expected births per tick are 1/MutationScale, so 1000 ticks without
	// one is vanishingly unlikely for any seed.
	for seed := int64(1); seed <= 5; seed++ {
		b := NewBoard(BoardConfig{Rows: 50, Columns: 50, RandomMutation: true}, WithSeed(seed))
		revived := false
		for i := 0; i < 1000 && !revived; i++ {
			if err := b.StepAndGrow(); err != nil {
				t.Fatal(err)
			}
			revived = b.Counts().Alive > 0
		}
		if !revived {
			t.Fatalf("seed %d: board stayed dead with mutation enabled", seed)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	config := BoardConfig{Rows: 37, Columns: 23, RandomMutation: true}
	seq := NewBoard(config, WithSeed(7)).Random()
	par := NewBoard(config, WithSeed(7), WithParallel(true), WithPool(NewGridPool())).Random()

	for i := 0; i < 30; i++ {
		if err := seq.Step(); err != nil {
			t.Fatal(err)
		}
		if err := par.Step(); err != nil {
			t.Fatal(err)
		}
		if !seq.Grid().Equal(par.Grid()) {
			t.Fatalf("generation %d: parallel proposal differs from sequential", i)
		}
		seq.Grow()
		par.Grow()
	}
}

func TestToggleRandomMutation(t *testing.T) {
	b := newTestBoard(2, 2)
	if !b.ToggleRandomMutation() || !b.Config().RandomMutation {
		t.Fatal("expected mutation enabled after first toggle")
	}
	if b.ToggleRandomMutation() {
		t.Fatal("expected mutation disabled after second toggle")
	}
}

func TestStagnationDetection(t *testing.T) {
	b, err := newTestBoard(6, 6).Block()
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if b.IsStagnant() {
			t.Fatalf("stagnant after only %d recorded states", i)
		}
		b.UpdateHistory()
		if err := b.StepAndGrow(); err != nil {
			t.Fatal(err)
		}
	}
	if !b.IsStagnant() {
		t.Fatal("still life not reported stagnant")
	}
}
