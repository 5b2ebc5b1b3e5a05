// Package main provides the CLI entry point for frameplay.
package main

import (
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/frameplay/pkg/adapters/displayclock"
	"github.com/user/frameplay/pkg/adapters/filesink"
	"github.com/user/frameplay/pkg/adapters/filewatch"
	"github.com/user/frameplay/pkg/adapters/gifdecoder"
	"github.com/user/frameplay/pkg/adapters/ggrenderer"
	"github.com/user/frameplay/pkg/adapters/logger"
	"github.com/user/frameplay/pkg/adapters/osfilesystem"
	"github.com/user/frameplay/pkg/config"
	"github.com/user/frameplay/pkg/framestore"
	"github.com/user/frameplay/pkg/playback"
	"github.com/user/frameplay/pkg/ports"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Play    PlayCmd    `cmd:"" help:"Play an animated image in real time."`
	Export  ExportCmd  `cmd:"" help:"Export every frame of one playback pass as PNG files."`
	Info    InfoCmd    `cmd:"" help:"Show animation metadata."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// PlayCmd plays an animation against the wall clock.
type PlayCmd struct {
	Source string `arg:"" help:"Animated image file (GIF)."`

	Config string `short:"c" help:"Optional yaml config file."`

	// Display options (override config)
	Width  *int    `short:"W" help:"Target display width (0 keeps intrinsic size)."`
	Height *int    `short:"H" help:"Target display height (0 keeps intrinsic size)."`
	Fit    *string `enum:"stretch,fit,fill" help:"Content fit policy (stretch, fit, fill)."`

	// Playback options
	Preload *int     `help:"Frame buffer capacity (default: 50)."`
	Loops   *int     `short:"n" help:"Number of playback passes (0 = forever)."`
	Rate    *float64 `short:"r" help:"Playback speed multiplier."`
	TickMs  *int     `help:"Clock interval in milliseconds (default: 16)."`

	// Output
	Out   string `short:"o" help:"Directory to also write changed frames as PNG."`
	Watch bool   `short:"w" help:"Reload and restart when the source file changes."`

	// Logging options
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// ExportCmd steps through one playback pass offline and writes every
// frame to disk.
type ExportCmd struct {
	Source string `arg:"" help:"Animated image file (GIF)."`
	Out    string `short:"o" required:"" help:"Output directory for PNG frames."`

	Config string `short:"c" help:"Optional yaml config file."`

	Width  *int    `short:"W" help:"Target display width (0 keeps intrinsic size)."`
	Height *int    `short:"H" help:"Target display height (0 keeps intrinsic size)."`
	Fit    *string `enum:"stretch,fit,fill" help:"Content fit policy (stretch, fit, fill)."`

	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// InfoCmd prints animation metadata.
type InfoCmd struct {
	Source string `arg:"" help:"Animated image file (GIF)."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("frameplay"),
		kong.Description(l10n.T("Play animated images with bounded frame buffering.")),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildConfig merges an optional config file with CLI overrides.
func buildConfig(path string, width, height *int, fit *string) (config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if width != nil {
		cfg.Width = *width
	}
	if height != nil {
		cfg.Height = *height
	}
	if fit != nil {
		cfg.Fit = *fit
	}
	cfg.Normalize()
	return cfg, nil
}

func newLogger(level string, quiet bool) ports.Logger {
	if quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(level))
}

// Run executes the play command.
func (c *PlayCmd) Run() error {
	cfg, err := buildConfig(c.Config, c.Width, c.Height, c.Fit)
	if err != nil {
		return err
	}
	if c.Preload != nil {
		cfg.Preload = *c.Preload
	}
	if c.Loops != nil {
		cfg.Loops = *c.Loops
	}
	if c.Rate != nil {
		cfg.Rate = *c.Rate
	}
	if c.TickMs != nil {
		cfg.TickMs = *c.TickMs
	}
	cfg.Normalize()

	log := newLogger(c.LogLevel, c.Quiet)
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	decoder := gifdecoder.New()
	clock := displayclock.New(cfg.TickInterval(), cfg.Rate)

	var sink ports.FrameSink
	if c.Out != "" {
		if err := fs.MkdirAll(c.Out); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		sink = filesink.New(c.Out, fs, renderer)
	}

	shown := 0
	onFrame := func(img image.Image) {
		if sink != nil {
			if err := sink.WriteFrame(shown, img); err != nil {
				log.Warn(l10n.T("Failed to write frame %d: %v"), shown, err)
			}
		}
		shown++
	}

	scheduler := playback.NewScheduler(clock, decoder, renderer, log, onFrame)
	defer scheduler.Reset()

	prepare := func() error {
		data, err := fs.ReadFile(c.Source)
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
		ready := make(chan struct{})
		scheduler.Prepare(cfg.ToSource(data), func() { close(ready) })
		<-ready
		if !scheduler.IsAnimatable() {
			return fmt.Errorf("source is not animatable: %s", c.Source)
		}
		return nil
	}
	if err := prepare(); err != nil {
		return err
	}

	log.Info(l10n.T("Playing %s (%d frames, one pass %s)"),
		c.Source, scheduler.FrameCount(), scheduler.LoopDuration())
	scheduler.Start()

	var watchCh <-chan struct{}
	if c.Watch {
		watcher, err := filewatch.New(c.Source, log)
		if err != nil {
			return err
		}
		defer watcher.Close()
		watchCh = watcher.Changes()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-sig:
			log.Info(l10n.T("Interrupted"))
			return nil
		case <-watchCh:
			log.Info(l10n.T("Source changed, reloading"))
			if err := prepare(); err != nil {
				log.Warn(l10n.T("Reload failed: %v"), err)
				continue
			}
			scheduler.Start()
		case <-poll.C:
			if scheduler.IsFinished() && !scheduler.IsAnimating() {
				if c.Watch {
					continue
				}
				log.Info(l10n.T("Playback finished after %d frames"), shown)
				return nil
			}
		}
	}
}

// Run executes the export command.
func (c *ExportCmd) Run() error {
	cfg, err := buildConfig(c.Config, c.Width, c.Height, c.Fit)
	if err != nil {
		return err
	}

	log := newLogger(c.LogLevel, c.Quiet)
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	decoder := gifdecoder.New()

	data, err := fs.ReadFile(c.Source)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := fs.MkdirAll(c.Out); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	sink := filesink.New(c.Out, fs, renderer)

	source := cfg.ToSource(data)
	source.LoopCount = 1

	store := framestore.New(decoder, renderer, log)
	defer store.Close()
	ready := make(chan struct{})
	store.Prepare(source, func() { close(ready) })
	<-ready
	if store.FrameCount() == 0 {
		return fmt.Errorf("source is not a valid animation: %s", c.Source)
	}

	for {
		img, ok := waitFrame(store, time.Second)
		if ok {
			if err := sink.WriteFrame(store.CurrentIndex(), img); err != nil {
				return err
			}
		} else {
			log.Warn(l10n.T("Frame %d could not be decoded, skipped"), store.CurrentIndex())
		}
		if store.IsFinished() || store.FrameCount() <= 1 {
			break
		}
		// Feed minimum-delay ticks until the cursor advances exactly once.
		for !store.ShouldChangeFrame(framestore.MinFrameDelay) {
			if store.IsFinished() {
				break
			}
		}
		if store.IsFinished() {
			break
		}
	}

	log.Info(l10n.T("Exported %d frames to %s"), sink.Written(), c.Out)
	return nil
}

// waitFrame polls for the current frame image, allowing the background
// decode a moment to catch up.
func waitFrame(store *framestore.Store, timeout time.Duration) (image.Image, bool) {
	deadline := time.Now().Add(timeout)
	for {
		if img, ok := store.CurrentFrameImage(); ok {
			return img, true
		}
		if time.Now().After(deadline) {
			return nil, false
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// Run executes the info command.
func (c *InfoCmd) Run() error {
	fs := osfilesystem.New()
	data, err := fs.ReadFile(c.Source)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	decoder := gifdecoder.New()
	anim, err := decoder.Parse(data)
	if err != nil {
		return fmt.Errorf("parse animation: %w", err)
	}

	store := framestore.New(decoder, ggrenderer.New(), logger.NewNoop())
	defer store.Close()
	ready := make(chan struct{})
	store.Prepare(ports.Source{Data: data, PreloadCount: 1}, func() { close(ready) })
	<-ready

	width, height := anim.Size()
	fmt.Printf("%s: %s\n", l10n.T("Source"), c.Source)
	fmt.Printf("%s: %d\n", l10n.T("Frames"), anim.FrameCount())
	fmt.Printf("%s: %dx%d\n", l10n.T("Size"), width, height)
	fmt.Printf("%s: %s\n", l10n.T("Loop duration"), store.LoopDuration())
	if anim.LoopCount() == 0 {
		fmt.Printf("%s: %s\n", l10n.T("Loops"), l10n.T("forever"))
	} else {
		fmt.Printf("%s: %d\n", l10n.T("Loops"), anim.LoopCount())
	}
	return nil
}

// Run executes the version command.
func (c *VersionCmd) Run() error {
	fmt.Println(l10n.F("frameplay version %s", version))
	return nil
}
