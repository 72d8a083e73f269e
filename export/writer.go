// Package export writes conversion results into an output directory.
package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/kennygrant/sanitize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/user-none/vgmjuice/emu"
	"github.com/user-none/vgmjuice/patch"
	"github.com/user-none/vgmjuice/timeline"
	"github.com/user-none/vgmjuice/vgm"
)

// Writer writes MIDI, patch, sample and data block files into Dir.
// Existing files are overwritten.
type Writer struct {
	Fs     afero.Fs
	Dir    string
	Format patch.Format
	Ext    string // patch file extension, without the dot

	log *slog.Logger
}

// NewWriter creates dir on fs if needed. A nil fs selects the OS
// filesystem.
func NewWriter(fs afero.Fs, dir string, format patch.Format, ext string, logger *slog.Logger) (*Writer, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.WithStack(err)
	}
	ext = strings.TrimLeft(sanitize.BaseName(ext), ".")
	if ext == "" {
		ext = format.Name
	}
	return &Writer{Fs: fs, Dir: dir, Format: format, Ext: ext, log: logger}, nil
}

func (w *Writer) path(name string) string {
	return filepath.Join(w.Dir, name)
}

// WriteMIDI writes all timelines to <name>.mid.
func (w *Writer) WriteMIDI(name string, tracks [emu.NumTracks][]emu.NoteEvent, title string) error {
	var buf bytes.Buffer
	if err := timeline.Write(&buf, tracks, timeline.Options{Title: title}); err != nil {
		return err
	}
	p := w.path(name + ".mid")
	if err := afero.WriteFile(w.Fs, p, buf.Bytes(), 0644); err != nil {
		return errors.WithStack(err)
	}
	w.log.Debug("wrote MIDI", "path", p, "bytes", buf.Len())
	return nil
}

// PatchFileName returns the file name of instrument i.
func (w *Writer) PatchFileName(i int) string {
	return fmt.Sprintf("patch_%02d.%s", i, w.Ext)
}

// WritePatches writes every instrument as patch_NN.<ext>. A failed file is
// logged and skipped. label prefixes the patch names stored in formats
// that carry one. It returns the number of files written.
func (w *Writer) WritePatches(instruments []emu.Instrument, label string) int {
	n := 0
	for i := range instruments {
		name := fmt.Sprintf("%s %02d", label, i)
		data := w.Format.Export(&instruments[i], name)
		p := w.path(w.PatchFileName(i))
		if err := afero.WriteFile(w.Fs, p, data, 0644); err != nil {
			w.log.Error("can't write patch", "path", p, "error", err)
			continue
		}
		n++
	}
	return n
}

// SampleFileName returns the file name of a DAC sample.
func SampleFileName(index int) string {
	return fmt.Sprintf("sample_%03d.wav", index)
}

// WriteSample writes s as an unsigned 8-bit mono WAV file.
func (w *Writer) WriteSample(s emu.Sample) error {
	p := w.path(SampleFileName(s.Index))
	f, err := w.Fs.Create(p)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, s.Rate, 8, 1, 1)
	data := make([]int, len(s.Data))
	for i, b := range s.Data {
		data[i] = int(b)
	}
	buf := &audio.IntBuffer{Data: data, Format: &audio.Format{SampleRate: s.Rate, NumChannels: 1}, SourceBitDepth: 8}
	if err := enc.Write(buf); err != nil {
		return errors.Wrapf(err, "encode %s", p)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "finish %s", p)
	}
	return nil
}

// WriteSamples writes every sample, logging and skipping failures.
func (w *Writer) WriteSamples(samples []emu.Sample) int {
	n := 0
	for _, s := range samples {
		if err := w.WriteSample(s); err != nil {
			w.log.Error("can't write sample", "index", s.Index, "error", err)
			continue
		}
		n++
	}
	return n
}

// DataBlockFileName returns the file name of data block i.
func DataBlockFileName(i int, typ uint8) string {
	return fmt.Sprintf("datablock_%02d(%02X).bin", i, typ)
}

// WriteDataBlocks dumps each data block verbatim, logging and skipping
// failures. It returns the number of files written.
func (w *Writer) WriteDataBlocks(blocks []vgm.DataBlock) int {
	n := 0
	for i, b := range blocks {
		p := w.path(DataBlockFileName(i, b.Type))
		if err := afero.WriteFile(w.Fs, p, b.Data, 0644); err != nil {
			w.log.Error("can't write data block", "path", p, "error", err)
			continue
		}
		n++
	}
	return n
}
