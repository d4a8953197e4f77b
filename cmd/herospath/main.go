package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/herospath/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	recordPath := flag.String("record", "", "watch this document and record every save")
	exportPath := flag.String("export", "", "write the timeline as an HTML page and exit")
	serve := flag.Bool("serve", false, "serve the web viewer instead of the terminal UI")
	intervalMS := flag.Int("interval", 0, "playback interval in milliseconds (optional)")
	reset := flag.Bool("reset", false, "clear the recorded history")
	workspace := flag.String("workspace", "", "override the workspace directory (optional)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		RecordPath: *recordPath,
		ExportPath: *exportPath,
		Serve:      *serve,
		Reset:      *reset,
		Workspace:  *workspace,
		Debug:      *debug,
	}
	if ms := *intervalMS; ms > 0 {
		opts.IntervalMS = ms
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "herospath: %v\n", err)
		return 1
	}
	return 0
}
