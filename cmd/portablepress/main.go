package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set at build time via ldflags.
var version = "dev"

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"portablepress.yaml" type:"path"`
	EnvFile string `name:"env-file" help:"Dotenv file loaded before the configuration" default:".env" type:"path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
	LogJSON bool   `name:"log-json" help:"Log as JSON instead of text"`

	Build   BuildCmd   `cmd:"" help:"Fetch content and write the tag-count and search-index artifacts"`
	Serve   ServeCmd   `cmd:"" help:"Serve the blog over HTTP"`
	Import  ImportCmd  `cmd:"" help:"Import a dataset export (NDJSON) into the SQLite mirror"`
	Export  ExportCmd  `cmd:"" help:"Write posts and authors as MDX files with YAML front matter"`
	Init    InitCmd    `cmd:"" help:"Create a starter configuration"`
	Version VersionCmd `cmd:"" help:"Print the portablepress version"`
}

func (c *CLI) newLogger() *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadEnv reads the dotenv file if there is one. Variables already set in
// the environment win.
func (c *CLI) loadEnv() error {
	if c.EnvFile == "" {
		return nil
	}
	if _, err := os.Stat(c.EnvFile); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(c.EnvFile)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("portablepress"),
		kong.Description("A blog front end for Portable Text content from Sanity"),
		kong.UsageOnError(),
	)

	logger := cli.newLogger()
	slog.SetDefault(logger)

	if err := cli.loadEnv(); err != nil {
		logger.Error("Failed to load env file", "path", cli.EnvFile, "error", err)
		os.Exit(1)
	}

	if err := ctx.Run(&Global{Logger: logger}, &cli); err != nil {
		logger.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
