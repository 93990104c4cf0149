package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/proftop/proftop/internal/logutil"
	"github.com/proftop/proftop/internal/model"
	"github.com/proftop/proftop/internal/sampler"
	"github.com/proftop/proftop/internal/stats"
	"github.com/proftop/proftop/internal/sysmon"
	"github.com/proftop/proftop/internal/tui"
	"github.com/proftop/proftop/internal/ui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var pid int
	var memory bool
	var interval time.Duration
	var configPath string
	var skin string
	var showVersion bool

	flag.IntVar(&pid, "p", 0, "attach to the process with the given PID")
	flag.BoolVar(&memory, "m", false, "profile memory instead of wall-clock time")
	flag.DurationVar(&interval, "i", 0, "sampling interval (default is the sampler's own)")
	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/proftop/config.yml)")
	flag.StringVar(&skin, "skin", "", "skin file or skin name under $HOME/.config/proftop/skins")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("proftop - Top-like Sampling Profiler Viewer\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if skin != "" {
		cfg.Skin = skin
	}
	if interval > 0 {
		cfg.SamplerInterval = interval
	}

	if err := run(cfg, pid, memory, flag.Args()); err != nil {
		if errors.Is(err, sampler.ErrNoTarget) {
			usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: proftop [flags] -p PID\n")
	fmt.Fprintf(os.Stderr, "       proftop [flags] command [args...]\n\n")
	fmt.Fprintf(os.Stderr, "flags:\n")
	flag.PrintDefaults()
}

func run(cfg cliConfig, pid int, memory bool, command []string) error {
	log, err := logutil.New(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	palette := ui.NewPalette()
	if cfg.Skin != "" {
		home, _ := os.UserHomeDir()
		if err := palette.LoadSkin(skinPath(cfg.Skin, home)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load skin '%s': %v (using default)\n", cfg.Skin, err)
		}
	}

	kind := model.TimeMetric
	if memory {
		kind = model.MemoryMetric
	}

	proc, err := sampler.Launcher{
		Bin:      cfg.SamplerBin,
		Interval: cfg.SamplerInterval,
		Memory:   memory,
		PID:      pid,
		Command:  command,
		Log:      log,
	}.Start(context.Background())
	if err != nil {
		return err
	}

	dashboard := tui.New(tui.Deps{
		Aggregate: stats.New(kind, sampler.Parse),
		Tracker:   sysmon.NewTracker(sysmon.NewGopsStats()),
		Sampler:   proc,
		Palette:   palette,
		Keys:      tui.DefaultKeyMap(),
		Interval:  cfg.UpdateInterval,
		SaveDir:   cfg.SaveDir,
		Log:       log,
	})

	p := tea.NewProgram(dashboard, tea.WithAltScreen())
	_, runErr := p.Run()

	// The dashboard normally stops the sampler on quit; do it again here so
	// an aborted program never leaves one behind.
	proc.Stop()
	if werr := proc.Wait(); werr != nil {
		log.Warn().Err(werr).Msg("sampler terminated with error")
	}

	if runErr != nil {
		if strings.Contains(runErr.Error(), "TTY") || strings.Contains(runErr.Error(), "/dev/tty") {
			return fmt.Errorf("proftop requires a real terminal")
		}
		return fmt.Errorf("running dashboard: %w", runErr)
	}
	return nil
}
