// Package main is the entry point for the ledstrip command.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/ledstrip-go/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		showUsage()
		return
	}

	var err error
	switch os.Args[1] {
	case "wiring":
		err = wiringCommand(os.Args[2:])
	case "run":
		err = runCommand(os.Args[2:])
	case "scan":
		err = scanCommand()
	case "profile":
		err = profileCommand(os.Args[2:])
	default:
		showUsage()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("Usage:")
	fmt.Println("  ledstrip wiring [config]              - Print the wire index of every pixel")
	fmt.Println("  ledstrip run [config]                 - Drive the configured output until Ctrl+C")
	fmt.Println("  ledstrip scan                         - Scan for Pixoo devices on local network")
	fmt.Println("  ledstrip profile save <name> [config] - Store the configured matrix as a profile")
	fmt.Println("  ledstrip profile list [config]        - List stored profiles")
	fmt.Println("  ledstrip profile show <name> [config] - Show a stored profile")
	fmt.Println("  ledstrip profile use <name> [config]  - Cache frames of later runs under a profile")
	fmt.Println("  ledstrip profile delete <name> [config]")
	fmt.Println()
	fmt.Printf("The configuration defaults to %s; built-in defaults apply when it is missing.\n", config.DefaultPath)
}

// loadConfig reads the configuration named by the first argument. A missing
// default file yields the built-in defaults.
func loadConfig(args []string) (*config.Config, error) {
	path := config.DefaultPath
	if len(args) > 0 {
		path = args[0]
	}
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && len(args) == 0 {
		return config.Default(), nil
	}
	return cfg, err
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(cfg.LogLevel()).
		With().Timestamp().Logger()
}
