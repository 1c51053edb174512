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

	"github.com/junsooki/AirView/internal/config"
	"github.com/junsooki/AirView/internal/encoder"
	"github.com/junsooki/AirView/internal/logging"
	"github.com/junsooki/AirView/internal/pattern"
	"github.com/junsooki/AirView/internal/peer"
	"github.com/junsooki/AirView/internal/signaling"
	"github.com/junsooki/AirView/internal/transport"
)

func main() {
	cfg, err := config.ParseSenderFlags("airview-sender", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "airview-sender: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		slog.Error("sender stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.SenderConfig) error {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if err := logging.Configure(logging.Format(cfg.Log.Format), level, nil); err != nil {
		return err
	}
	log := slog.Default()

	log.Info("AirView sender starting",
		"sender-id", cfg.SenderID,
		"signaling", cfg.SignalingURL,
		"fps", cfg.FPS,
		"quality", cfg.Quality,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := pattern.NewGenerator(cfg.Width, cfg.Height, cfg.MaxWidth, cfg.MaxHeight)
	enc := encoder.NewJPEGEncoder(cfg.Quality)

	// Peer manager (created on first offer).
	var current atomic.Pointer[peer.Sender]
	var sig *signaling.Client

	sig = signaling.NewClient(cfg.SignalingURL, cfg.SenderID, signaling.ClientTypeSender, signaling.Handler{
		OnRegistered: func() {
			log.Info("registered with signaling server")
		},
		OnOffer: func(from string, payload json.RawMessage) {
			log.Info("received offer", "from", from)
			s, err := peer.NewSender(sig, cfg.ICEServers, log)
			if err != nil {
				log.Error("create sender peer", "error", err)
				return
			}
			t := s.Transport()
			t.OnControl(func(msg transport.ControlMessage) {
				handleControl(log, gen, t, msg)
			})
			if err := s.HandleOffer(from, payload); err != nil {
				log.Error("handle offer", "error", err)
				s.Close()
				return
			}
			if old := current.Swap(s); old != nil {
				old.Close()
			}
		},
		OnICECandidate: func(from string, payload json.RawMessage) {
			if s := current.Load(); s != nil {
				if err := s.HandleICECandidate(payload); err != nil {
					log.Warn("handle ICE candidate", "error", err)
				}
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
		if s := current.Load(); s != nil {
			s.Close()
		}
	}()

	log.Info("sender ready, share this ID with viewers", "sender-id", cfg.SenderID)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return streamFrames(ctx, log, cfg.FPS, gen, enc, &current)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-sig.Done():
			return errors.New("signaling connection closed")
		}
	})
	err = g.Wait()
	log.Info("shutting down")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func handleControl(log *slog.Logger, gen *pattern.Generator, t transport.ControlSender, msg transport.ControlMessage) {
	if msg.Type != transport.ControlResolution {
		return
	}
	w, h := gen.Resize(msg.Width, msg.Height)
	log.Info("resolution requested",
		"requested", fmt.Sprintf("%dx%d", msg.Width, msg.Height),
		"using", fmt.Sprintf("%dx%d", w, h),
	)
	err := t.SendControl(transport.ControlMessage{Type: transport.ControlVideoSize, Width: w, Height: h})
	if err != nil {
		log.Debug("send video size", "error", err)
	}
}
