package ebitenhost

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"go.uber.org/zap"

	"github.com/phanxgames/replay"
)

const sampleRate = 48000

// soundBank decodes sound files on first use and hands out one player per
// file name.
type soundBank struct {
	ctx      *audio.Context
	log      *zap.Logger
	assetDir string
	players  map[string]*soundPlayer
}

func newSoundBank(log *zap.Logger, assetDir string) *soundBank {
	return &soundBank{
		ctx:      audio.NewContext(sampleRate),
		log:      log,
		assetDir: assetDir,
		players:  map[string]*soundPlayer{},
	}
}

func (b *soundBank) player(fileName string) *soundPlayer {
	if p, ok := b.players[fileName]; ok {
		return p
	}
	p := &soundPlayer{bank: b, fileName: fileName}
	b.players[fileName] = p
	return p
}

// decode opens fileName as a seekable PCM stream with its byte length.
func (b *soundBank) decode(fileName string) (io.ReadSeeker, int64, error) {
	data, err := readAsset(b.assetDir, fileName)
	if err != nil {
		return nil, 0, err
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".wav":
		s, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
		if err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", fileName, err)
		}
		return s, s.Length(), nil
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
		if err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", fileName, err)
		}
		return s, s.Length(), nil
	default:
		return nil, 0, fmt.Errorf("decode %s: unsupported format", fileName)
	}
}

// soundPlayer implements replay.AudioPlayer. Looping and one-shot playback
// use separate ebiten players built lazily.
type soundPlayer struct {
	bank     *soundBank
	fileName string

	once   *audio.Player
	looped *audio.Player
	active *audio.Player
	failed bool
}

func (p *soundPlayer) load(loop bool) *audio.Player {
	if p.failed {
		return nil
	}
	if loop && p.looped != nil {
		return p.looped
	}
	if !loop && p.once != nil {
		return p.once
	}
	stream, length, err := p.bank.decode(p.fileName)
	if err == nil && loop {
		stream = audio.NewInfiniteLoop(stream, length)
	}
	var pl *audio.Player
	if err == nil {
		pl, err = p.bank.ctx.NewPlayer(stream)
	}
	if err != nil {
		p.bank.log.Warn("sound load failed", zap.String("file", p.fileName), zap.Error(err))
		p.failed = true
		return nil
	}
	if loop {
		p.looped = pl
	} else {
		p.once = pl
	}
	return pl
}

func (p *soundPlayer) Play(opts replay.PlayOptions) {
	pl := p.load(opts.Loop)
	if pl == nil {
		return
	}
	pos := time.Duration(opts.FromPosition * float64(time.Second))
	if opts.FromPosition < 0 && p.active != nil {
		pos = p.active.Position()
	}
	if p.active != nil && p.active != pl {
		p.active.Pause()
	}
	if err := pl.SetPosition(pos); err != nil {
		p.bank.log.Warn("sound seek failed", zap.String("file", p.fileName), zap.Error(err))
	}
	pl.Play()
	p.active = pl
}

func (p *soundPlayer) Pause() {
	if p.active != nil {
		p.active.Pause()
	}
}

func (p *soundPlayer) Position() float64 {
	if p.active == nil {
		return 0
	}
	return p.active.Position().Seconds()
}
