package main

import (
	"fmt"
	"os"

	"forex-coach/internal/cli"
	"forex-coach/internal/config"
	"forex-coach/internal/logging"
)

func main() {
	cfg, err := config.Load(configDirArg())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configDirArg scans the arguments for --config before cobra parses
// them, because the config has to exist before commands are built.
func configDirArg() string {
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
		if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
			return arg[len("--config="):]
		}
	}
	return ""
}
