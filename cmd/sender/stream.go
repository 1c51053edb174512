package main

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/junsooki/AirView/internal/encoder"
	"github.com/junsooki/AirView/internal/pattern"
	"github.com/junsooki/AirView/internal/peer"
	"github.com/junsooki/AirView/internal/transport"
)

// streamFrames paces pattern frames at fps to the connected viewer. Frames are
// only drawn while a viewer is connected.
func streamFrames(ctx context.Context, log *slog.Logger, fps int, gen *pattern.Generator, enc encoder.Encoder, current *atomic.Pointer[peer.Sender]) error {
	limiter := rate.NewLimiter(rate.Limit(fps), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		s := current.Load()
		if s == nil {
			continue
		}
		data, err := enc.Encode(gen.Next())
		if err != nil {
			log.Warn("encode frame", "error", err)
			continue
		}
		sendFrame(log, s.Transport(), data)
	}
}

// sendFrame hands data to t. Frames sent before the channel is set are lost
// without notice; other failures are logged.
func sendFrame(log *slog.Logger, t transport.FrameSender, data []byte) {
	err := t.SendFrame(data)
	if err != nil && !errors.Is(err, transport.ErrFramesChannelNotSet) {
		log.Debug("send frame", "bytes", len(data), "error", err)
	}
}
