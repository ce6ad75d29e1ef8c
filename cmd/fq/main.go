// Package main is the entry point for the fq CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/focusquest/focusquest/internal/app"
	"github.com/focusquest/focusquest/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Create dependency injection container
	container, err := app.New(cwd)
	if err != nil {
		// Allow help/version/template without a usable store
		if canRunWithoutStore(os.Args[1:]) {
			return cli.NewRootCommand(nil, version).Execute()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	execErr := rootCmd.ExecuteContext(context.Background())
	if closeErr := container.Close(context.Background()); closeErr != nil && execErr == nil {
		return closeErr
	}
	return execErr
}

// canRunWithoutStore reports whether args only need the command tree.
func canRunWithoutStore(args []string) bool {
	if len(args) == 0 {
		return true
	}
	if args[0] == "help" || args[0] == "completion" {
		return true
	}
	if len(args) >= 2 && args[0] == "config" && args[1] == "template" {
		return true
	}
	for _, arg := range args {
		if arg == "--version" || arg == "-v" || arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
