// Package patch encodes canonical YM2612 instruments into the instrument
// file formats of Mega Drive sound drivers and trackers.
package patch

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/user-none/vgmjuice/emu"
)

// ErrUnknownFormat is returned by FormatByName for an unregistered name.
var ErrUnknownFormat = errors.New("unknown instrument format")

// DefaultFormat is the format used when none is configured.
const DefaultFormat = "gems"

// Format is a named instrument file format.
type Format struct {
	Name        string
	Description string
	Size        int // exact encoded size in bytes; 0 for text formats
	encode      func(v voice, name string) []byte
}

// Export encodes inst. name labels the patch in formats that carry one.
// Fixed-size formats always return exactly Size bytes.
func (f Format) Export(inst *emu.Instrument, name string) []byte {
	b := f.encode(voice{inst}, name)
	if f.Size == 0 {
		return b
	}
	out := make([]byte, f.Size)
	copy(out, b)
	return out
}

var formats = map[string]Format{}

func register(f Format) {
	formats[f.Name] = f
}

func init() {
	register(Format{Name: "gems", Description: "internal GEMS 2.8 format", Size: 39, encode: encodeGEMS})
	register(Format{Name: "tyi", Description: "Tiido's instrument file", Size: 32, encode: encodeTYI})
	register(Format{Name: "tfi", Description: "TFM Music Maker instrument file", Size: 42, encode: encodeTFI})
	register(Format{Name: "eif", Description: "ECHO instrument file", Size: 29, encode: encodeEIF})
	register(Format{Name: "y12", Description: "GensKMOD YM2612 channel dump", Size: 128, encode: encodeY12})
	register(Format{Name: "vgi", Description: "VGM Music Maker instrument file", Size: 43, encode: encodeVGI})
	register(Format{Name: "dmp", Description: "DefleMask instrument file", Size: 51, encode: encodeDMP})
	register(Format{Name: "dmp0", Description: "DefleMask instrument file version 0", Size: 49, encode: encodeDMP0})
	register(Format{Name: "smps", Description: "internal SMPS format (Sonic 3)", Size: 25, encode: encodeSMPS})
	register(Format{Name: "rym2612", Description: "RYM2612 plugin preset", encode: encodeRYM2612})
}

// FormatByName looks up a registered format.
func FormatByName(name string) (Format, error) {
	f, ok := formats[name]
	if !ok {
		return Format{}, errors.Wrapf(ErrUnknownFormat, "%q", name)
	}
	return f, nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
