package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/junsooki/AirView/internal/canvas"
	"github.com/junsooki/AirView/internal/clock"
	"github.com/junsooki/AirView/internal/config"
	"github.com/junsooki/AirView/internal/decoder"
	"github.com/junsooki/AirView/internal/display"
	"github.com/junsooki/AirView/internal/logging"
	"github.com/junsooki/AirView/internal/peer"
	"github.com/junsooki/AirView/internal/signaling"
	"github.com/junsooki/AirView/internal/surface"
	"github.com/junsooki/AirView/internal/transport"
)

func main() {
	cfg, err := config.ParseViewerFlags("airview-viewer", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "airview-viewer: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: airview-viewer -signaling <url> -sender <sender-id>")
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		slog.Error("viewer stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.ViewerConfig) error {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if err := logging.Configure(logging.Format(cfg.Log.Format), level, nil); err != nil {
		return err
	}
	log := slog.Default()
	gravity, err := surface.ParseGravity(cfg.Gravity)
	if err != nil {
		return err
	}

	log.Info("AirView viewer starting",
		"viewer-id", cfg.ViewerID,
		"signaling", cfg.SignalingURL,
		"sender", cfg.SenderID,
		"gravity", gravity,
		"headless", cfg.Headless,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The surface is created after the display, but the display reports
	// its layout from the game loop only once Run starts.
	var surf *surface.FrameSurface
	var (
		clk       surface.DisplayClock
		cnv       surface.Canvas
		win       *display.EbitenDisplay
		ticker    *clock.Ticker
		offscreen *canvas.RGBA
	)
	if cfg.Headless {
		ticker = clock.NewTicker(cfg.FPS)
		offscreen = canvas.NewRGBA(canvas.Options{})
		clk, cnv = ticker, offscreen
	} else {
		win = display.NewEbitenDisplay("AirView", cfg.Width, cfg.Height, func(w, h int) {
			surf.SetBounds(w, h)
		})
		clk, cnv = win, win
	}

	surf, err = surface.New(clk, cnv, surface.Options{
		Gravity: gravity,
		Bounds:  surface.Size{Width: cfg.Width, Height: cfg.Height},
		Logger:  log,
	})
	if err != nil {
		return err
	}
	defer surf.Destroy()

	fwd := &boundsForwarder{log: log.With("component", "bounds-forwarder")}
	fwd.OnSurfaceBoundsChanged(cfg.Width, cfg.Height)
	reg := surface.SetWeakDelegate(surf, fwd)
	defer reg.Cancel()

	dec := decoder.NewJPEGDecoder()
	var viewerPeer atomic.Pointer[peer.Viewer]

	var sig *signaling.Client
	sig = signaling.NewClient(cfg.SignalingURL, cfg.ViewerID, signaling.ClientTypeViewer, signaling.Handler{
		OnRegistered: func() {
			log.Info("registered with signaling server")

			v, err := peer.NewViewer(sig, cfg.SenderID, cfg.ICEServers, log)
			if err != nil {
				log.Error("create viewer peer", "error", err)
				stop()
				return
			}
			viewerPeer.Store(v)

			t := v.Transport()
			t.OnFrame(func(data []byte) {
				frame, err := dec.Decode(data)
				if err != nil {
					log.Debug("decode frame", "error", err)
					return
				}
				if err := surf.SubmitFrame(frame); err != nil {
					log.Debug("submit frame", "error", err)
				}
			})
			t.OnControl(func(msg transport.ControlMessage) {
				if msg.Type == transport.ControlVideoSize {
					surf.SetVideoSize(msg.Width, msg.Height)
				}
			})
			v.OnControlOpen(func() {
				fwd.attach(t)
			})

			if err := v.Connect(); err != nil {
				log.Error("viewer connect", "error", err)
			}
		},
		OnAnswer: func(from string, payload json.RawMessage) {
			if v := viewerPeer.Load(); v != nil {
				if err := v.HandleAnswer(payload); err != nil {
					log.Warn("handle answer", "error", err)
				}
			}
		},
		OnICECandidate: func(from string, payload json.RawMessage) {
			if v := viewerPeer.Load(); v != nil {
				if err := v.HandleICECandidate(payload); err != nil {
					log.Warn("handle ICE candidate", "error", err)
				}
			}
		},
		OnSenderDisconnected: func(senderID string) {
			if senderID == cfg.SenderID {
				log.Info("sender disconnected", "sender", senderID)
				stop()
			}
		},
		OnError: func(msg string) {
			log.Warn("signaling error", "message", msg)
		},
	}, log)

	if err := sig.Connect(ctx); err != nil {
		return err
	}
	defer sig.Close()
	defer func() {
		if v := viewerPeer.Load(); v != nil {
			v.Close()
		}
	}()

	if cfg.Headless {
		err = runHeadless(ctx, ticker, sig)
		if cfg.Snapshot != "" {
			if serr := offscreen.WritePNG(cfg.Snapshot); serr != nil {
				log.Warn("snapshot", "error", serr)
			} else {
				log.Info("snapshot written", "path", cfg.Snapshot)
			}
		}
	} else {
		go func() {
			select {
			case <-ctx.Done():
			case <-sig.Done():
			}
			win.Close()
		}()
		// Ebitengine RunGame must be on the main goroutine (macOS requirement).
		err = win.Run()
	}

	stats := surf.Stats()
	log.Info("viewer stopped",
		"submitted", stats.Submitted,
		"superseded", stats.Superseded,
		"stale", stats.Stale,
		"presented", stats.Presented,
		"present-errors", stats.PresentErrors,
	)
	return err
}

func runHeadless(ctx context.Context, ticker *clock.Ticker, sig *signaling.Client) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ticker.Run(ctx)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-sig.Done():
			return errors.New("signaling connection closed")
		}
	})
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
