package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikhrachel/transient-life/model"
	"github.com/sheikhrachel/transient-life/utils"
)

func main() {
	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig("config.json")
	if err != nil {
		fmt.Println("Using default configuration:", err)
		config = utils.DefaultConfig()
	}
	utils.SetDebug(config.Debug)

	session, stats, err := initializeGame(config)
	if err != nil {
		log.Fatalf("failed to start: %+v", err)
	}
	displayGameInfo(config, session.Board)

	// Handle Ctrl+C gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	keys := make(chan rune)
	go readKeys(os.Stdin, keys)

	frameRate := config.FrameRate
	if frameRate <= 0 {
		frameRate = utils.DefaultConfig().FrameRate
	}
	ticker := time.NewTicker(frameRate)
	defer ticker.Stop()

	loop := newGameLoop(session, stats, config, os.Stdout)

	for {
		select {
		case <-sigChan:
			fmt.Println("\nShutting down gracefully...")
			fmt.Printf("Final stats: %d generations in %.1f seconds\n",
				session.Board.Generation(), time.Since(stats.StartTime).Seconds())
			return

		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			cmd, bound := model.CommandForKey(key)
			if !bound {
				continue
			}
			if err := session.Apply(cmd); err != nil {
				log.Printf("%s: %v", cmd, err)
			}

		case <-ticker.C:
			if loop.tick() {
				return
			}
		}
	}
}
