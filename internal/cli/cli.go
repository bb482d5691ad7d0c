// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command line parsing for luna.aura.
package cli

import (
	"fmt"
	"runtime"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	Command Command

	// Model overrides the configured default model.
	Model string
	// Theme overrides the configured theme ("dark" or "light").
	Theme string
	// ConfigPath overrides the config file location.
	ConfigPath string

	// Raw args after parsing.
	Raw []string
}

const usageText = `luna.aura - terminal chat client for Gemini

Usage:
  aura                 Start the chat TUI (default)
  aura version, -v     Show version information
  aura help, -h        Show this help

Flags:
  --model <id>         Use a specific Gemini model for this session
  --theme <name>       Use a theme for this session (dark, light)
  --config <path>      Use an alternate config file

Environment:
  GEMINI_API_KEY       Gemini API key (required to chat)
  AURA_MODEL           Default model override
  AURA_THEME           Theme override

Keys inside the TUI:
  Enter                Send message
  Ctrl+N               New conversation
  Ctrl+F               Search conversations
  Ctrl+E               Export conversation
  Tab                  Switch focus between sidebar and chat
  Ctrl+C               Quit
`

// Parse parses command line arguments (without the program name).
func Parse(raw []string) *Args {
	parser := NewArgParser(raw)

	args := &Args{
		Command:    CmdTUI,
		Model:      parser.Flag("model"),
		Theme:      parser.Flag("theme"),
		ConfigPath: parser.Flag("config"),
		Raw:        raw,
	}

	switch parser.Subcommand() {
	case "version":
		args.Command = CmdVersion
	case "help":
		args.Command = CmdHelp
	}
	if parser.BoolFlag("version") || parser.BoolFlag("v") {
		args.Command = CmdVersion
	}
	if parser.BoolFlag("help") || parser.BoolFlag("h") {
		args.Command = CmdHelp
	}

	return args
}

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("luna.aura %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
	fmt.Printf("  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
