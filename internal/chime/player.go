package chime

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/logger"
)

// Compile-time interface check.
var _ domain.Celebrator = (*Player)(nil)

// Option configures a Player.
type Option func(*Player)

// WithSound replaces the synthesized fanfare with raw PCM.
func WithSound(pcm []byte) Option {
	return func(p *Player) {
		p.sound = pcm
	}
}

// WithVolume sets the fanfare volume in [0, 1].
func WithVolume(v float64) Option {
	return func(p *Player) {
		p.volume = v
	}
}

// Player plays the completion chime through the system audio device.
// Celebrate returns immediately; playback happens in the background and a
// new chime interrupts one still playing.
type Player struct {
	ctx    *oto.Context
	log    *logger.Logger
	sound  []byte
	volume float64

	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
	wg     sync.WaitGroup
}

// NewPlayer initializes the system audio context. Returns an error if the
// audio device is unavailable.
func NewPlayer(log *logger.Logger, opts ...Option) (*Player, error) {
	p := &Player{log: log, volume: 0.4}
	for _, opt := range opts {
		opt(p)
	}
	if p.sound == nil {
		p.sound = Synthesize(Fanfare, p.volume)
	}

	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-readyChan
	p.ctx = ctx

	log.Debug("chime player initialized (rate=%d, channels=%d, %d bytes)", SampleRate, ChannelCount, len(p.sound))
	return p, nil
}

// LoadWAV reads a 24 kHz 16-bit mono WAV file for use with WithSound.
func LoadWAV(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chime %s: %w", path, err)
	}
	pcm, err := extractPCM(data)
	if err != nil {
		return nil, fmt.Errorf("chime %s: %w", path, err)
	}
	return pcm, nil
}

// Celebrate starts the chime.
func (p *Player) Celebrate(ctx context.Context, c domain.Celebration) error {
	p.Stop()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.play(p.sound); err != nil {
			p.log.Warn("chime for %q failed: %v", c.RecipeName, err)
		}
	}()
	return nil
}

// play plays PCM synchronously. Blocks until playback finishes or Stop
// is called.
func (p *Player) play(pcm []byte) error {
	player := p.ctx.NewPlayer(bytes.NewReader(pcm))

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()

	player.Play()
	p.log.Debug("chime: playing %d bytes of PCM", len(pcm))

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	p.mu.Lock()
	if p.active == player {
		p.active = nil
	}
	p.mu.Unlock()

	return player.Close()
}

// Stop interrupts the chime currently playing, if any. Safe to call
// concurrently and when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("chime: interrupted")
	}
}

// Close stops playback and waits for background playback to finish.
func (p *Player) Close() {
	p.Stop()
	p.wg.Wait()
}
