// Package cli provides the command-line conversion runner.
// It reads one VGM file, interprets it, and writes the MIDI file,
// instrument patches, DAC samples and raw data blocks.
package cli

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/user-none/vgmjuice/emu"
	"github.com/user-none/vgmjuice/export"
	"github.com/user-none/vgmjuice/patch"
	"github.com/user-none/vgmjuice/vgm"
)

// Output naming modes.
const (
	NameVGM = "vgm" // always vgm.mid
	NameGD3 = "gd3" // title from the GD3 tag
)

// ErrUnknownNameMode is returned for a NameMode other than NameVGM or NameGD3.
var ErrUnknownNameMode = errors.New("unknown naming mode")

// Config holds the options of one conversion.
type Config struct {
	InputPath   string
	OutputDir   string
	PatchFormat string // patch.DefaultFormat when empty
	PatchExt    string // format name when empty
	NameMode    string // NameVGM when empty

	Fs     afero.Fs     // OS filesystem when nil
	Logger *slog.Logger // slog.Default() when nil
}

// Result summarizes a finished conversion.
type Result struct {
	MIDIName    string
	Instruments int
	Patches     int
	Samples     int
	DataBlocks  int
	Ticks       int64
}

// Runner converts VGM files according to a Config.
type Runner struct {
	cfg    Config
	log    *slog.Logger
	format patch.Format
}

// NewRunner validates cfg.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("input path is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("output directory is required")
	}
	if cfg.PatchFormat == "" {
		cfg.PatchFormat = patch.DefaultFormat
	}
	if cfg.NameMode == "" {
		cfg.NameMode = NameVGM
	}
	if cfg.NameMode != NameVGM && cfg.NameMode != NameGD3 {
		return nil, errors.Wrapf(ErrUnknownNameMode, "%q", cfg.NameMode)
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	format, err := patch.FormatByName(cfg.PatchFormat)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, log: cfg.Logger, format: format}, nil
}

// Run performs the conversion. A stream error aborts before any output is
// written; failures of individual patch, sample or data block files are
// logged and skipped.
func (r *Runner) Run() (Result, error) {
	var res Result

	reader, err := vgm.Open(r.cfg.Fs, r.cfg.InputPath)
	if err != nil {
		return res, err
	}
	h := reader.Header()
	r.log.Info("VGM header",
		"version", fmt.Sprintf("%X.%02X", h.Version>>8, h.Version&0xFF),
		"sn76489_clock", h.SN76489Clock,
		"ym2612_clock", h.YM2612Clock,
		"total_samples", h.TotalSamples,
		"loop_samples", h.LoopSamples)
	timing := emu.TimingForClock(h.SN76489Clock)
	if h.YM2612Clock == 0 {
		r.log.Warn("no YM2612 clock in header, assuming region default",
			"ym2612_clock", timing.YM2612ClockHz)
	}

	samples := &emu.SampleCollector{}
	in := emu.NewInterpreter(emu.Config{
		Logger:     r.log,
		Samples:    samples,
		Timing:     timing,
		FrameWaits: [2]int{h.NTSCFrameWait, h.PALFrameWait},
	})
	if err := in.Run(reader); err != nil {
		return res, errors.Wrapf(err, "%s at offset 0x%X", r.cfg.InputPath, reader.Offset())
	}
	res.Ticks = in.Now()
	if h.TotalSamples != 0 && int64(h.TotalSamples) != in.Now() {
		r.log.Warn("stream length differs from header",
			"header_samples", h.TotalSamples, "ticks", in.Now())
	}

	tags, err := reader.Tags()
	if err != nil && !stderrors.Is(err, vgm.ErrNoGD3) {
		r.log.Warn("can't read GD3 tag", "error", err)
	}

	w, err := export.NewWriter(r.cfg.Fs, r.cfg.OutputDir, r.format, r.cfg.PatchExt, r.log)
	if err != nil {
		return res, err
	}

	res.MIDIName = export.DefaultName
	if r.cfg.NameMode == NameGD3 {
		res.MIDIName = export.BaseName(tags)
	}
	if err := w.WriteMIDI(res.MIDIName, in.Tracks(), export.Title(tags)); err != nil {
		return res, err
	}

	label := export.BaseName(tags)
	res.Instruments = len(in.Instruments())
	res.Patches = w.WritePatches(in.Instruments(), label)
	res.Samples = w.WriteSamples(samples.Samples)
	res.DataBlocks = w.WriteDataBlocks(reader.DataBlocks())

	r.log.Info("conversion finished",
		"midi", res.MIDIName+".mid",
		"instruments", res.Instruments,
		"patches", res.Patches,
		"samples", res.Samples,
		"data_blocks", res.DataBlocks)
	return res, nil
}

// Run converts one file with cfg.
func Run(cfg Config) error {
	r, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	_, err = r.Run()
	return err
}
