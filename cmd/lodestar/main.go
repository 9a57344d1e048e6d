package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/lodestar/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: lodestar [flags] URL|PATH\n\n")
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	format := flag.String("format", "", "log format: default, ansi or resmoke (optional, detected by default)")
	caseSensitive := flag.Bool("case", false, "start with case-sensitive search")
	debug := flag.Bool("debug", false, "write debug records to the log file")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		URL:           flag.Arg(0),
		ConfigPath:    *configPath,
		PrefsPath:     *prefsPath,
		Format:        *format,
		CaseSensitive: *caseSensitive,
		Debug:         *debug,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "lodestar: %v\n", err)
		return 1
	}
	return 0
}
