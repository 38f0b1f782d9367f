package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/transient-life/model"
	"github.com/sheikhrachel/transient-life/utils"
)

// initializeGame sets up the initial game state
func initializeGame(config utils.Config) (*model.Session, *utils.Stats, error) {
	board, err := newBoard(config)
	if err != nil {
		return nil, nil, err
	}

	session := model.NewSession(board, model.NewTerminalRenderer(), config.Running)
	session.ShowTransient = config.ShowTransient

	return session, utils.NewStats(), nil
}

// newBoard builds a board from config and loads its starting pattern
func newBoard(config utils.Config) (*model.Board, error) {
	opts := []model.Option{model.WithParallel(config.UseParallel)}
	if config.Seed != 0 {
		opts = append(opts, model.WithSeed(config.Seed))
	}
	if config.UseMemoryPool {
		opts = append(opts, model.WithPool(model.NewGridPool()))
	}

	board := model.NewBoard(boardConfig(config), opts...)

	if err := loadPattern(board, config.Pattern); err != nil {
		return nil, errors.Wrapf(err, "[newBoard] failed to load pattern %q", config.Pattern)
	}
	return board, nil
}

// boardConfig extracts the board settings from the runner configuration
func boardConfig(config utils.Config) model.BoardConfig {
	return model.BoardConfig{
		Rows:           config.Rows,
		Columns:        config.Columns,
		RandomMutation: config.RandomMutation,
	}
}

func loadPattern(board *model.Board, pattern string) error {
	var err error
	switch pattern {
	case utils.PatternRandom:
		board.Random()
	case utils.PatternFill:
		board.Fill()
	case utils.PatternClear:
		board.Clear()
	case utils.PatternBlock:
		_, err = board.Block()
	case utils.PatternGlider:
		_, err = board.Glider()
	default:
		err = errors.Errorf("unknown pattern %q", pattern)
	}
	return err
}

// displayGameInfo shows the initial game information
func displayGameInfo(config utils.Config, board *model.Board) {
	fmt.Println()
	fmt.Println("Conways Game of Life")
	fmt.Println()
	fmt.Println(model.Help)
	fmt.Println("Enter a key followed by return, Ctrl+C to exit")
	fmt.Println()
	fmt.Printf("Board size: %dx%d | Mutation: %v | Parallel: %v | Memory Pool: %v\n",
		board.Rows(), board.Columns(), config.RandomMutation, config.UseParallel, config.UseMemoryPool)
	fmt.Println()
	time.Sleep(2 * time.Second)
}

// readKeys forwards every non-newline rune read from r to keys until r is exhausted
func readKeys(r io.Reader, keys chan<- rune) {
	defer close(keys)

	reader := bufio.NewReader(r)
	for {
		key, _, err := reader.ReadRune()
		if err != nil {
			return
		}
		if key == '\n' || key == '\r' {
			continue
		}
		keys <- key
	}
}

// gameLoop holds the runner state carried between frames
type gameLoop struct {
	session *model.Session
	stats   *utils.Stats
	config  utils.Config
	out     io.Writer

	stagnantCount int
	restarts      int
	lastAdvance   time.Time
	restartPause  time.Duration
}

func newGameLoop(session *model.Session, stats *utils.Stats, config utils.Config, out io.Writer) *gameLoop {
	return &gameLoop{
		session:      session,
		stats:        stats,
		config:       config,
		out:          out,
		lastAdvance:  time.Now(),
		restartPause: 1 * time.Second,
	}
}

// tick runs one frame and reports whether the max generation limit was reached.
// Stats, stagnation and restarts only move when the frame committed a generation,
// so a paused or half-stepped board is left alone.
func (g *gameLoop) tick() bool {
	before := g.session.Board.Generation()
	utils.Timed("grid_calculation", func() {
		if err := g.session.Tick(); err != nil {
			log.Printf("tick: %v", err)
		}
	})

	board := g.session.Board
	advanced := board.Generation() != before

	stagnant := false
	if advanced {
		g.stats.Update(board.Generation(), board.Counts().Alive, time.Since(g.lastAdvance))
		g.lastAdvance = time.Now()

		stagnant = board.IsStagnant()
		board.UpdateHistory()
		if stagnant {
			g.stagnantCount++
		} else {
			g.stagnantCount = 0
		}
	}

	utils.Timed("terminal drawing", func() {
		g.session.Renderer.Clear()
		displayGameStatus(g.out, g.session, g.stats, stagnant)
		g.session.Renderer.Display(board)
	})

	if g.config.MaxGenerations > 0 && board.Generation() >= g.config.MaxGenerations {
		fmt.Fprintf(g.out, "\nReached maximum generations limit (%d)\n", g.config.MaxGenerations)
		return true
	}

	if !advanced || !g.config.AutoRestart {
		return false
	}
	if shouldRestart, reason := checkRestartConditions(board, g.stagnantCount, g.config); shouldRestart {
		fmt.Fprintf(g.out, "Restarting due to %s...\n", reason)
		if err := g.restart(); err != nil {
			log.Printf("%+v", err)
		}
	}
	return false
}

// restart replaces the session board with a fresh random one.
// A fixed seed is offset by the restart count so each restart gets a new board.
func (g *gameLoop) restart() error {
	fmt.Fprintf(g.out, "\nRestarting...\n")

	g.restarts++
	config := g.config
	config.Pattern = utils.PatternRandom
	if config.Seed != 0 {
		config.Seed += int64(g.restarts)
	}

	board, err := newBoard(config)
	if err != nil {
		return errors.Wrap(err, "[restart]")
	}
	board.SetRandomMutation(g.session.Board.Config().RandomMutation)
	g.session.Board = board
	g.stagnantCount = 0

	fmt.Fprintf(g.out, "New board loaded! Living cells: %d\n", board.Counts().Alive)
	time.Sleep(g.restartPause)
	return nil
}

// displayGameStatus shows the current game status
func displayGameStatus(out io.Writer, session *model.Session, stats *utils.Stats, stagnant bool) {
	var (
		board      = session.Board
		counts     = board.Counts()
		area       = board.Rows() * board.Columns()
		density    float64
		status     = "Active"
		mutationOn = board.Config().RandomMutation
	)
	if area > 0 {
		density = float64(counts.Alive) / float64(area) * 100
	}
	switch {
	case !session.Running:
		status = "Paused"
	case counts.Alive == 0 && counts.Growing == 0:
		status = "Extinct"
	case stagnant:
		status = "Stagnant"
	}

	fmt.Fprintf(out, "Gen: %d | Living: %d | Growing: %d | Dieing: %d | Density: %.1f%% | Status: %s | Mutation: %v\n",
		board.Generation(), counts.Alive, counts.Growing, counts.Dieing, density, status, mutationOn)
	fmt.Fprintf(out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, time.Since(stats.StartTime).Seconds())
	fmt.Fprintln(out)
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(board *model.Board, stagnantCount int, config utils.Config) (bool, string) {
	if board.Pending() {
		return false, ""
	}
	if board.Counts().Alive == 0 && !board.Config().RandomMutation {
		return true, "extinction"
	}
	if config.StagnationThreshold > 0 && stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}
