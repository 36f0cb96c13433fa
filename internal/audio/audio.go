// Package audio plays the short sound effects of map objects.
package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"chosenoffset.com/stationkeeper/internal/logger"
)

// Player plays a named sound. Playback is fire and forget.
type Player interface {
	Play(name string)
}

// Config controls the sound library.
type Config struct {
	Enabled    bool    `yaml:"enabled"`
	Dir        string  `yaml:"-"`
	Volume     float64 `yaml:"volume"` // in beep's log2 steps, 0 is unchanged
	SampleRate int     `yaml:"sample_rate"`
	CacheMB    int     `yaml:"cache_mb"`
}

// bytes per decoded stereo sample
const sampleCost = 16

// Library decodes wav files from a directory and caches the decoded samples.
type Library struct {
	dir    string
	format beep.Format
	volume float64
	cache  *ristretto.Cache[string, *beep.Buffer]
	log    logrus.FieldLogger

	mu      sync.Mutex
	started bool
}

// NewLibrary creates a library. The speaker is not touched until Start.
func NewLibrary(cfg Config, log logrus.FieldLogger) (*Library, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.CacheMB <= 0 {
		cfg.CacheMB = 16
	}
	cache, err := ristretto.NewCache[string, *beep.Buffer](&ristretto.Config[string, *beep.Buffer]{
		NumCounters: 1000,
		MaxCost:     int64(cfg.CacheMB) << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sound cache: %w", err)
	}
	return &Library{
		dir:    cfg.Dir,
		format: beep.Format{SampleRate: beep.SampleRate(cfg.SampleRate), NumChannels: 2, Precision: 2},
		volume: cfg.Volume,
		cache:  cache,
		log:    logger.OrDiscard(log).WithField("component", "audio"),
	}, nil
}

// Start initializes the speaker.
func (l *Library) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return nil
	}
	if err := speaker.Init(l.format.SampleRate, l.format.SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to init speaker: %w", err)
	}
	l.started = true
	return nil
}

// Close stops playback and releases the cache.
func (l *Library) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		speaker.Clear()
		speaker.Close()
		l.started = false
	}
	l.cache.Close()
}

// Load returns the decoded samples of a sound, decoding it on a cache miss.
func (l *Library) Load(name string) (*beep.Buffer, error) {
	if buf, ok := l.cache.Get(name); ok {
		return buf, nil
	}

	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open sound %s: %w", name, err)
	}
	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode sound %s: %w", name, err)
	}
	defer stream.Close()

	buf := beep.NewBuffer(l.format)
	var src beep.Streamer = stream
	if format.SampleRate != l.format.SampleRate {
		src = beep.Resample(4, format.SampleRate, l.format.SampleRate, stream)
	}
	buf.Append(src)

	l.cache.Set(name, buf, int64(buf.Len())*sampleCost)
	l.log.WithFields(logrus.Fields{"sound": name, "samples": buf.Len()}).Debug("sound decoded")
	return buf, nil
}

// Preload decodes every named sound in parallel and waits until the cache
// has seen them. The first decode error is returned.
func (l *Library) Preload(ctx context.Context, names []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := l.Load(name)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	l.cache.Wait()
	l.log.WithField("sounds", len(seen)).Info("sounds preloaded")
	return nil
}

// Play starts a sound. Unknown sounds are logged and skipped.
func (l *Library) Play(name string) {
	if name == "" {
		return
	}
	buf, err := l.Load(name)
	if err != nil {
		l.log.WithError(err).Warn("sound not played")
		return
	}

	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		return
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if l.volume != 0 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: l.volume}
	}
	speaker.Play(s)
}

// Silent is a Player that plays nothing.
type Silent struct{}

// Play does nothing.
func (Silent) Play(string) {}

// Recorder is a Player that remembers what it was asked to play.
type Recorder struct {
	mu     sync.Mutex
	played []string
}

// Play records name.
func (r *Recorder) Play(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, name)
}

// Played returns the recorded names in order.
func (r *Recorder) Played() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.played...)
}
