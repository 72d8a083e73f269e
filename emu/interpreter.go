// Package emu replays VGM register writes for the YM2612 and SN76489 and
// turns the resulting chip state changes into per-channel note events,
// canonical FM instruments and DAC samples.
package emu

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/user-none/vgmjuice/vgm"
)

// Channel counts and track layout: FM tracks first, then PSG.
const (
	FMChannels   = 6
	PSGChannels  = 4
	NumTracks    = FMChannels + PSGChannels
	psgTrackBase = FMChannels
)

// NoteEvent is one entry of a channel timeline.
type NoteEvent struct {
	Time       int64 // ticks at OutputRate
	On         bool
	Freq       int // raw block/F-number (FM) or divider (PSG)
	Instrument int // canonical instrument index (FM); 0 for PSG
}

// Source is a VGM command stream plus the data blocks read from it.
type Source interface {
	Next() (vgm.Command, error)
	DataBlockOfType(t uint8) ([]byte, bool)
}

// Config configures an Interpreter. Zero values select defaults.
type Config struct {
	Logger  *slog.Logger
	Samples SampleSink // receives DAC samples; nil discards them
	Timing  RegionTiming

	// Initial lengths of the 0x62 and 0x63 waits. Zero entries use the
	// NTSC and PAL frame lengths.
	FrameWaits [2]int
}

// Interpreter holds all chip and timeline state for one pass over a stream.
type Interpreter struct {
	log *slog.Logger

	now       int64
	frameWait [2]int // 0x62, 0x63

	fm             YM2612
	psg            *PSG
	lastInstrument [FMChannels]int
	instruments    Instruments
	dac            *DACExtractor
	tracks         [NumTracks][]NoteEvent

	// PCM data block cursor for 0x8n
	blocks Source
	pcmPos int
}

// NewInterpreter creates an interpreter with all channels silent at tick 0.
func NewInterpreter(cfg Config) *Interpreter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timing := cfg.Timing
	if timing.SN76489ClockHz == 0 {
		timing = NTSCTiming
	}
	frameWait := cfg.FrameWaits
	if frameWait[0] == 0 {
		frameWait[0] = NTSCTiming.FrameWait
	}
	if frameWait[1] == 0 {
		frameWait[1] = PALTiming.FrameWait
	}
	return &Interpreter{
		log:       logger,
		frameWait: frameWait,
		psg:       NewPSG(timing.SN76489ClockHz),
		dac:       NewDACExtractor(cfg.Samples, logger),
	}
}

// Run executes every command of src. It stops at the end of the stream
// and returns any stream error, which leaves the timelines incomplete.
func (in *Interpreter) Run(src Source) error {
	in.blocks = src
	for {
		cmd, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "interpret at tick %d", in.now)
		}
		in.Execute(cmd)
	}
}

// Execute applies one command.
func (in *Interpreter) Execute(cmd vgm.Command) {
	switch c := cmd.(type) {
	case vgm.Wait:
		in.now += int64(c.Samples)
	case vgm.WaitShort:
		in.now += int64(c.Samples)
	case vgm.WaitFrame:
		if c.PAL {
			in.now += int64(in.frameWait[1])
		} else {
			in.now += int64(in.frameWait[0])
		}
	case vgm.WaitOverride:
		switch c.Target {
		case 0x62:
			in.frameWait[0] = int(c.Samples)
		case 0x63:
			in.frameWait[1] = int(c.Samples)
		default:
			in.log.Warn("wait override for unknown command", "target", hexByte(c.Target), "tick", in.now)
		}
	case vgm.YM2612Write:
		in.writeYM2612(c.Port, c.Reg, c.Value)
	case vgm.PSGWrite:
		in.writePSG(c.Value)
	case vgm.DACWrite:
		in.streamDAC(c.Wait)
	case vgm.PCMSeek:
		in.pcmPos = int(c.Offset)
	case vgm.GGStereo, vgm.DataBlockLoaded, vgm.End:
		// Nothing musical
	default:
		in.log.Warn("unhandled command", "opcode", hexByte(cmd.Opcode()), "tick", in.now)
	}
}

// streamDAC writes the byte at the PCM cursor to the DAC data register,
// then advances the cursor and the clock.
func (in *Interpreter) streamDAC(wait uint8) {
	var pcm []byte
	if in.blocks != nil {
		pcm, _ = in.blocks.DataBlockOfType(0x00)
	}
	if in.pcmPos >= 0 && in.pcmPos < len(pcm) {
		in.writeYM2612(0, 0x2A, pcm[in.pcmPos])
	} else {
		in.log.Warn("DAC stream read outside PCM data",
			"offset", in.pcmPos, "size", len(pcm), "tick", in.now)
	}
	in.now += int64(wait)
	in.pcmPos++
}

func (in *Interpreter) appendNote(track int, on bool, freq, instrument int) {
	in.tracks[track] = append(in.tracks[track], NoteEvent{
		Time:       in.now,
		On:         on,
		Freq:       freq,
		Instrument: instrument,
	})
}

// Now returns the current tick.
func (in *Interpreter) Now() int64 {
	return in.now
}

// Tracks returns the timelines: FM channels 0-5 then PSG channels 0-3.
func (in *Interpreter) Tracks() [NumTracks][]NoteEvent {
	return in.tracks
}

// Track returns one timeline.
func (in *Interpreter) Track(i int) []NoteEvent {
	return in.tracks[i]
}

// Instruments returns the canonical FM instruments.
func (in *Interpreter) Instruments() []Instrument {
	return in.instruments.List()
}

// SampleCount returns the number of DAC samples emitted.
func (in *Interpreter) SampleCount() int {
	return in.dac.Count()
}

// FM returns the FM register file.
func (in *Interpreter) FM() *YM2612 {
	return &in.fm
}

// PSG returns the PSG register file.
func (in *Interpreter) PSG() *PSG {
	return in.psg
}

func hexByte(v uint8) string {
	return fmt.Sprintf("%02X", v)
}
