package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/user-none/vgmjuice/cli"
	"github.com/user-none/vgmjuice/patch"
)

var logger = slog.Default()

// initLogger installs a text handler on stderr as the default logger.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: vgmjuice [options] input output_dir\n\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Converts a VGM/VGZ file to MIDI, instrument patches and samples.\n\n")
	flag.PrintDefaults()
	fmt.Fprintf(flag.CommandLine.Output(), "\nPatch formats:\n")
	for _, name := range patch.Formats() {
		f, _ := patch.FormatByName(name)
		fmt.Fprintf(flag.CommandLine.Output(), "  %-8s %s\n", name, f.Description)
	}
	fmt.Fprintf(flag.CommandLine.Output(), "\nAll outputs are overwritten.\n")
}

func main() {
	inPath := flag.String("in", "", "VGM or VGZ file path")
	outDir := flag.String("out", "", "output directory")
	format := flag.String("p", patch.DefaultFormat, "instrument patch format")
	ext := flag.String("pext", "", "instrument file extension (default: format name)")
	nameMode := flag.String("name", cli.NameVGM, "MIDI file name: vgm or gd3 (track title)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	// Positional form: vgmjuice input output_dir
	args := flag.Args()
	if *inPath == "" && len(args) > 0 {
		*inPath, args = args[0], args[1:]
	}
	if *outDir == "" && len(args) > 0 {
		*outDir, args = args[0], args[1:]
	}
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %s\n\n", strings.Join(args, " "))
		usage()
		os.Exit(2)
	}
	if *inPath == "" || *outDir == "" {
		usage()
		os.Exit(2)
	}

	initLogger(*debug)

	err := cli.Run(cli.Config{
		InputPath:   *inPath,
		OutputDir:   *outDir,
		PatchFormat: strings.ToLower(*format),
		PatchExt:    *ext,
		NameMode:    strings.ToLower(*nameMode),
		Logger:      logger,
	})
	if err != nil {
		logger.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}
