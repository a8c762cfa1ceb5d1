package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guidoenr/spectra/internal/analyzer"
	"github.com/guidoenr/spectra/internal/app"
	"github.com/guidoenr/spectra/internal/audio"
	"github.com/guidoenr/spectra/internal/display"
	"github.com/guidoenr/spectra/internal/params"
	"github.com/guidoenr/spectra/internal/web"
)

func main() {
	var (
		deviceName  = flag.String("audio-device", "", "Optional PortAudio device name (substring match)")
		width       = flag.Int("width", 800, "Frame width in pixels (sdl/none; the terminal uses its own size)")
		height      = flag.Int("height", 600, "Frame height in pixels (sdl/none)")
		targetFPS   = flag.Float64("fps", 60, "Target frames per second")
		fftSize     = flag.Int("fft-size", 2048, "FFT window size (rounded up to a power of two)")
		noAudio     = flag.Bool("no-audio", false, "Run with a synthetic signal instead of capture")
		modeName    = flag.String("mode", "circular", "Visual mode ("+strings.Join(params.ModeNames(), "|")+")")
		hueShift    = flag.Int("hue", 0, "Hue shift in degrees")
		displayName = flag.String("display", "terminal", "Output ("+strings.Join(display.Names(), "|")+")")
		webPort     = flag.Int("web-port", 0, "Serve the control API and frame mirror on this port (0 disables)")
		configPath  = flag.String("config", "", "JSON config to load at startup; /api/save writes here")
		profilePath = flag.String("profile", "", "Append per-frame timings as CSV to this file")
		seed        = flag.Int64("seed", 0, "Random seed for particle fields (0 = time based)")
		debug       = flag.Bool("debug", false, "Enable verbose logging")
		showStatus  = flag.Bool("status", true, "Display status bar")
		listDevs    = flag.Bool("list-audio-devices", false, "List available audio input devices and exit")
	)

	flag.Parse()

	logger := log.New(os.Stdout, "[spectra] ", log.LstdFlags)
	if !*debug {
		logger.SetOutput(os.Stderr)
		logger.SetFlags(0)
	}

	if *configPath != "" {
		if saved, err := web.LoadConfig(*configPath); err == nil {
			applySaved(saved, setFlags(), modeName, hueShift, targetFPS, width, height, fftSize, displayName)
			logger.Printf("loaded config %s", *configPath)
		} else if !os.IsNotExist(err) {
			logger.Fatalf("load config: %v", err)
		}
	}

	if *width <= 0 || *height <= 0 {
		logger.Fatalf("invalid dimensions: width=%d height=%d", *width, *height)
	}
	if *targetFPS <= 0 {
		logger.Fatalf("fps must be positive (got %.2f)", *targetFPS)
	}
	if *fftSize <= 0 {
		logger.Fatalf("fft-size must be positive (got %d)", *fftSize)
	}
	mode, err := params.ParseMode(*modeName)
	if err != nil {
		logger.Fatalf("%v (want one of %s)", err, strings.Join(params.ModeNames(), "|"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	needAudio := !*noAudio || *listDevs
	if needAudio {
		if err := audio.Initialize(); err != nil {
			logger.Fatalf("%v", err)
		}
		defer audio.Terminate()
	}

	if *listDevs {
		listDevices(logger)
		return
	}

	var source analyzer.Source
	if *noAudio {
		synth := app.NewSyntheticSource(*fftSize, *seed)
		defer synth.Close()
		source = synth
		logger.Println("audio disabled, using synthetic signal")
	} else {
		live, err := audio.NewSource(audio.SourceConfig{DeviceName: *deviceName, FFTSize: *fftSize, Smoothing: 0.8})
		if err != nil {
			logger.Fatalf("audio capture: %v", err)
		}
		defer live.Close()
		source = live
		c := live.Capture()
		if info := c.Device(); info != nil {
			logger.Printf("audio capture started on %q @ %.0f Hz", info.Name, c.SampleRate())
		}
	}

	presenter, err := display.Open(display.Options{
		Name:      *displayName,
		Title:     "spectra",
		Width:     *width,
		Height:    *height,
		StatusBar: *showStatus,
	})
	if err != nil {
		logger.Fatalf("display: %v", err)
	}
	_, terminal := presenter.(*display.Terminal)

	cfg := app.Config{
		Width:       *width,
		Height:      *height,
		TargetFPS:   *targetFPS,
		Mode:        mode,
		HueShift:    *hueShift,
		Seed:        *seed,
		Keyboard:    terminal,
		ProfilePath: *profilePath,
		Source:      source,
		Presenter:   presenter,
		Log:         logger,
	}

	var server *web.Server
	if *webPort > 0 {
		server = web.NewServer(nil, web.Options{
			ConfigPath: *configPath,
			Defaults: web.SavedConfig{
				FFTSize: *fftSize,
				Display: *displayName,
			},
		})
		cfg.Mirror = server
	}

	a, err := app.New(cfg)
	if err != nil {
		presenter.Close()
		logger.Fatalf("failed to create app: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
		}
	}()

	if server != nil {
		server.Attach(a)
		go func() {
			if err := server.Start(ctx, *webPort); err != nil {
				logger.Printf("web server: %v", err)
			}
		}()
	}

	if err := a.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Printf("runtime error: %v", err)
		return
	}

	time.Sleep(50 * time.Millisecond)
}

// setFlags returns the names of flags given on the command line. They win
// over values from the config file.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func applySaved(saved *web.SavedConfig, set map[string]bool, mode *string, hue *int, fps *float64, width, height, fftSize *int, displayName *string) {
	if saved.Mode != "" && !set["mode"] {
		*mode = saved.Mode
	}
	if !set["hue"] {
		*hue = saved.HueShift
	}
	if saved.FPS > 0 && !set["fps"] {
		*fps = saved.FPS
	}
	if saved.Width > 0 && !set["width"] {
		*width = saved.Width
	}
	if saved.Height > 0 && !set["height"] {
		*height = saved.Height
	}
	if saved.FFTSize > 0 && !set["fft-size"] {
		*fftSize = saved.FFTSize
	}
	if saved.Display != "" && !set["display"] {
		*displayName = saved.Display
	}
}

func listDevices(logger *log.Logger) {
	devices, err := audio.ListDevices()
	if err != nil {
		logger.Fatalf("list devices: %v", err)
	}
	fmt.Printf("\n=== Audio Input Devices ===\n\n")
	for _, dev := range devices {
		if dev.MaxInput == 0 {
			continue
		}
		markers := ""
		if dev.IsDefaultInput {
			markers += " (default)"
		}
		fmt.Printf("- %s [%s]%s\n    inputs:%d outputs:%d sample:%.0f Hz\n",
			dev.Name, dev.HostAPI, markers, dev.MaxInput, dev.MaxOutput, dev.DefaultSampleHz)
	}
	if dev, err := audio.AutoDetectDevice(); err == nil && dev != nil {
		fmt.Printf("\nAuto-detected input: %s (%.0f Hz, %d channels)\n", dev.Name, dev.DefaultSampleRate, dev.MaxInputChannels)
	}
}
