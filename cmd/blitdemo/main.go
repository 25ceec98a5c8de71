// Command blitdemo streams an animated gg scene to a window through blit.
//
// Usage:
//
//	blitdemo [-config blit.toml] [-frames N]
//	blitdemo -headless out.png
//
// With -headless no window or GPU is opened: one frame is composited on the
// CPU exactly as the quad pass would present it and written as PNG.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/gogpu/blit"
)

func init() {
	// glfw and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		headless   = flag.String("headless", "", "write one composited frame to this PNG file and exit")
		frames     = flag.Int("frames", 0, "stop after this many frames (0 runs until the window closes)")
	)
	flag.Parse()

	cfg := blit.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = blit.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	level, err := cfg.LogLevel()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	blit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *headless != "" {
		if err := runHeadless(cfg, *headless); err != nil {
			log.Fatalf("Headless render failed: %v", err)
		}
		log.Printf("Frame saved to %s (%dx%d)\n", *headless, cfg.Window.Width, cfg.Window.Height)
		return
	}

	if err := runWindow(cfg, *frames); err != nil {
		log.Fatalf("blitdemo: %v", err)
	}
}
