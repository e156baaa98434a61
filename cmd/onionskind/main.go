// cmd/onionskind/main.go
//
// Onion-skin engine – demo daemon entry point.
//
// Startup life-cycle
// ------------------
//
//  1. Load env vars (system-wide file → .env fallback).
//
//  2. Load layered configuration (defaults → YAML → ONION_ overrides).
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Build the frame cache, synthetic geometry provider, session,
//     precache scheduler, gateway, and view.
//
//  5. Expose /healthz, /stats, and Prometheus /metrics.
//
//  6. Run the scheduler ticker plus a playhead simulation that steps the
//     session frame and draws the onion set, exercising the whole
//     miss → fill → batch → draw path end to end.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yanizio/onionskin/internal/batch"
	"github.com/yanizio/onionskin/internal/cache"
	"github.com/yanizio/onionskin/internal/config"
	"github.com/yanizio/onionskin/internal/gateway"
	"github.com/yanizio/onionskin/internal/geometry"
	"github.com/yanizio/onionskin/internal/logger"
	"github.com/yanizio/onionskin/internal/onion"
	"github.com/yanizio/onionskin/internal/precache"
	"github.com/yanizio/onionskin/internal/server"
	"github.com/yanizio/onionskin/internal/session"
)

const serverEnvPath = "/usr/local/etc/onionskin/global.env"

// loadEnv prefers the system-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

// ghostCounter is a stand-in Renderer that only counts draws; a host
// integration supplies the real GPU-backed one.
type ghostCounter struct{ drawn int }

func (g *ghostCounter) Draw(_ *batch.Batch, _ [4]float32) { g.drawn++ }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Core wiring ────────────────────────────────────────────────
	//
	fc := cache.New(cfg.Cache.Capacity, logOut)
	provider := geometry.Synthetic{}
	sess := session.New(config.Get)

	sched := precache.New(fc, provider, sess, func() precache.Tunables {
		c := config.Get()
		return precache.Tunables{
			FramesBefore: c.Ghost.FramesBefore,
			FramesAfter:  c.Ghost.FramesAfter,
			FrameStep:    c.Ghost.FrameStep,
		}
	}, logOut)

	gw := gateway.New(fc, sched, sess, logOut)
	view := onion.New(fc, provider, sess, config.Get, logOut)

	// Seed a demo scene: two deforming grids.
	gw.SetTracked([]string{"grid.a", "grid.b"})

	//
	// ── 2.  Stats / metrics endpoint ───────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, server.Router(fc))
	go func() {
		logOut.Infow("stats endpoint online", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil {
			logOut.Warnw("http server stopped", "err", err)
		}
	}()
	defer srv.Close()

	//
	// ── 3.  Background precache ticker ─────────────────────────────────
	//
	go sched.Run(ctx, precache.DefaultTickInterval)

	//
	// ── 4.  Playhead simulation: step, notify, draw ────────────────────
	//
	start, end := sess.FrameRange()
	frame := start
	step := time.NewTicker(250 * time.Millisecond)
	defer step.Stop()

	for {
		select {
		case <-ctx.Done():
			stats := fc.Stats()
			logOut.Infow("shutting down",
				"size", stats.Size, "hits", stats.Hits,
				"misses", stats.Misses, "hit_rate", stats.HitRate)
			return
		case <-step.C:
			frame++
			if frame > end {
				frame = start
			}
			_ = sess.SetFrame(frame)
			gw.OnFrameChanged(frame, 1)

			r := &ghostCounter{}
			view.Draw(ctx, r)
			logOut.Debugw("frame drawn", "frame", frame, "ghosts", r.drawn)

			// Periodic memory-pressure relief: drop frames far behind the
			// playhead.  Distinct from dirty-marking; see cache.EvictDistant.
			if frame%100 == 0 {
				fc.EvictDistant(frame, config.Get().Cache.KeepRadius)
			}
		}
	}
}
