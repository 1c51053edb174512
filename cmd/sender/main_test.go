package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junsooki/AirView/internal/pattern"
	"github.com/junsooki/AirView/internal/transport"
)

type controlRecorder struct {
	sent []transport.ControlMessage
}

func (r *controlRecorder) SendControl(msg transport.ControlMessage) error {
	r.sent = append(r.sent, msg)
	return nil
}

func TestHandleControlResizesAndReplies(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := pattern.NewGenerator(640, 480, 1280, 720)
	rec := &controlRecorder{}

	handleControl(log, gen, rec, transport.ControlMessage{Type: transport.ControlResolution, Width: 1921, Height: 1081})

	w, h := gen.Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	assert.Equal(t, []transport.ControlMessage{
		{Type: transport.ControlVideoSize, Width: 1280, Height: 720},
	}, rec.sent)

	handleControl(log, gen, rec, transport.ControlMessage{Type: transport.ControlVideoSize, Width: 10, Height: 10})
	assert.Len(t, rec.sent, 1)
}

type frameSink struct {
	err  error
	sent int
}

func (f *frameSink) SendFrame([]byte) error {
	f.sent++
	return f.err
}

func TestSendFrameLogsUnexpectedErrors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sendFrame(log, &frameSink{}, []byte{1})
	sendFrame(log, &frameSink{err: transport.ErrFramesChannelNotSet}, []byte{1})
	assert.Empty(t, buf.String())

	sendFrame(log, &frameSink{err: errors.New("sctp buffer full")}, []byte{1, 2})
	assert.Contains(t, buf.String(), "send frame")
	assert.Contains(t, buf.String(), "sctp buffer full")
}
