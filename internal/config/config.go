package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/junsooki/AirView/internal/clock"
	"github.com/junsooki/AirView/internal/surface"
)

var ErrMissingSender = errors.New("sender id is required")

// LogConfig selects the slog handler.
type LogConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// ViewerConfig holds configuration for the viewer binary.
type ViewerConfig struct {
	SignalingURL string    `yaml:"signaling"`
	ViewerID     string    `yaml:"id"`
	SenderID     string    `yaml:"sender"`
	Gravity      string    `yaml:"gravity"`
	Width        int       `yaml:"width"`
	Height       int       `yaml:"height"`
	Headless     bool      `yaml:"headless"`
	FPS          int       `yaml:"fps"`
	Snapshot     string    `yaml:"snapshot"`
	ICEServers   []string  `yaml:"iceServers"`
	Log          LogConfig `yaml:"log"`
}

// SenderConfig holds all runtime configuration of the sender binary.
type SenderConfig struct {
	SignalingURL string    `yaml:"signaling"`
	SenderID     string    `yaml:"id"`
	FPS          int       `yaml:"fps"`
	Quality      int       `yaml:"quality"`
	Width        int       `yaml:"width"`
	Height       int       `yaml:"height"`
	MaxWidth     int       `yaml:"maxWidth"`
	MaxHeight    int       `yaml:"maxHeight"`
	ICEServers   []string  `yaml:"iceServers"`
	Log          LogConfig `yaml:"log"`
}

func defaultViewer() *ViewerConfig {
	return &ViewerConfig{
		SignalingURL: "ws://localhost:8080",
		Gravity:      "fit",
		Width:        1280,
		Height:       720,
		FPS:          60,
		Log:          LogConfig{Format: "text", Level: "info"},
	}
}

func defaultSender() *SenderConfig {
	return &SenderConfig{
		SignalingURL: "ws://localhost:8080",
		FPS:          30,
		Quality:      70,
		Width:        1280,
		Height:       720,
		MaxWidth:     1920,
		MaxHeight:    1080,
		Log:          LogConfig{Format: "text", Level: "info"},
	}
}

// ParseViewerFlags parses viewer flags. A -config YAML file supplies
// defaults, explicit flags override it.
func ParseViewerFlags(name string, args []string) (*ViewerConfig, error) {
	cfg := defaultViewer()
	if err := loadFileFromArgs(args, cfg); err != nil {
		return nil, err
	}

	fs := newFlagSet(name)
	fs.StringVar(&cfg.SignalingURL, "signaling", cfg.SignalingURL, "Signaling server WebSocket URL")
	fs.StringVar(&cfg.ViewerID, "id", cfg.ViewerID, "Viewer ID (auto-generated if empty)")
	fs.StringVar(&cfg.SenderID, "sender", cfg.SenderID, "Sender ID to connect to (required)")
	fs.StringVar(&cfg.Gravity, "gravity", cfg.Gravity, "Video gravity: fit, fill or stretch")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Initial window width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Initial window height")
	fs.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Render off-screen instead of opening a window")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "Headless display refresh rate")
	fs.StringVar(&cfg.Snapshot, "snapshot", cfg.Snapshot, "Write the last headless frame as PNG on exit")
	ice := iceFlag(fs, &cfg.ICEServers)
	logFlags(fs, &cfg.Log)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	ice.apply()

	if cfg.ViewerID == "" {
		cfg.ViewerID = randomID("viewer")
	}
	if cfg.SenderID == "" {
		return nil, ErrMissingSender
	}
	if _, err := surface.ParseGravity(cfg.Gravity); err != nil {
		return nil, err
	}
	if cfg.FPS <= 0 || cfg.FPS > clock.MaxFPS {
		return nil, fmt.Errorf("fps must be in 1..%d, got %d", clock.MaxFPS, cfg.FPS)
	}
	return cfg, nil
}

// ParseSenderFlags parses flags for the sender binary.
func ParseSenderFlags(name string, args []string) (*SenderConfig, error) {
	cfg := defaultSender()
	if err := loadFileFromArgs(args, cfg); err != nil {
		return nil, err
	}

	fs := newFlagSet(name)
	fs.StringVar(&cfg.SignalingURL, "signaling", cfg.SignalingURL, "Signaling server WebSocket URL")
	fs.StringVar(&cfg.SenderID, "id", cfg.SenderID, "Sender ID (auto-generated if empty)")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "Target frames per second")
	fs.IntVar(&cfg.Quality, "quality", cfg.Quality, "JPEG quality (1-100)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Initial pattern width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Initial pattern height")
	fs.IntVar(&cfg.MaxWidth, "max-width", cfg.MaxWidth, "Largest width a viewer may request")
	fs.IntVar(&cfg.MaxHeight, "max-height", cfg.MaxHeight, "Largest height a viewer may request")
	ice := iceFlag(fs, &cfg.ICEServers)
	logFlags(fs, &cfg.Log)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	ice.apply()

	if cfg.SenderID == "" {
		cfg.SenderID = randomID("sender")
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", cfg.FPS)
	}
	return cfg, nil
}

// LoadFile decodes a YAML config file into cfg, keeping fields the file does
// not mention.
func LoadFile(path string, cfg any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func loadFileFromArgs(args []string, cfg any) error {
	path := configPath(args)
	if path == "" {
		return nil
	}
	return LoadFile(path, cfg)
}

// configPath finds -config ahead of the real parse so the file can seed the
// flag defaults.
func configPath(args []string) string {
	for i := 0; i < len(args); i++ {
		a := strings.TrimLeft(args[i], "-")
		if len(a) == len(args[i]) {
			continue
		}
		if v, ok := strings.CutPrefix(a, "config="); ok {
			return v
		}
		if a == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", "", "YAML config file")
	return fs
}

func logFlags(fs *flag.FlagSet, cfg *LogConfig) {
	fs.StringVar(&cfg.Format, "log-format", cfg.Format, "Logging format: text or json")
	fs.StringVar(&cfg.Level, "log-level", cfg.Level, "Logging level: debug, info, warn or error")
}

type iceValue struct {
	raw string
	dst *[]string
}

func iceFlag(fs *flag.FlagSet, dst *[]string) *iceValue {
	v := &iceValue{dst: dst}
	fs.StringVar(&v.raw, "ice", strings.Join(*dst, ","), "Comma-separated STUN/TURN URLs")
	return v
}

func (v *iceValue) apply() {
	var out []string
	for _, s := range strings.Split(v.raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*v.dst = out
}

func randomID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}
