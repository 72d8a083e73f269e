// Package timeline turns per-channel note events into MIDI note and pitch
// bend events and writes them as a Standard MIDI File.
package timeline

import (
	"math"

	"github.com/user-none/vgmjuice/emu"
)

// Kind is the type of a timeline event.
type Kind int

const (
	NoteOn Kind = iota
	NoteOff
	PitchBend
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "on"
	case NoteOff:
		return "off"
	case PitchBend:
		return "bend"
	}
	return "unknown"
}

// Event is one MIDI-level event of a single channel.
type Event struct {
	Time int64 // ticks at emu.OutputRate
	Kind Kind
	Note int   // NoteOn/NoteOff
	Bend int16 // PitchBend, -8192..8191
}

// Bend converts a distance in octaves to a pitch bend value for a
// sensitivity of 12 semitones, clamped to the MIDI range.
func Bend(octaves float64) int16 {
	v := math.Floor(octaves * 8192)
	if math.IsNaN(v) || v < -8192 {
		return -8192
	}
	if v > 8191 {
		return 8191
	}
	return int16(v)
}

// IsPSG reports whether timeline index track is a PSG channel.
func IsPSG(track int) bool {
	return track >= emu.FMChannels
}

// Events replays the note events of one channel. track selects FM
// (0-5) or PSG (6-9) handling.
func Events(track int, notes []emu.NoteEvent) []Event {
	if IsPSG(track) {
		return psgEvents(notes)
	}
	return fmEvents(notes)
}

// fmEvents treats FM pitch as continuous: the note is fixed at key-on and
// later frequency changes only move the bend.
func fmEvents(notes []emu.NoteEvent) []Event {
	var out []Event
	var (
		on       bool
		lastNote int
		lastBend int16
	)
	for _, n := range notes {
		if !n.On {
			if on {
				out = append(out, Event{Time: n.Time, Kind: NoteOff, Note: lastNote})
				on = false
			}
			continue
		}

		if !on {
			lastNote = emu.Note(n.Freq)
		}
		bend := Bend(emu.PitchBend(n.Freq, lastNote))
		if bend != lastBend {
			out = append(out, Event{Time: n.Time, Kind: PitchBend, Bend: bend})
			lastBend = bend
		}
		if !on {
			out = append(out, Event{Time: n.Time, Kind: NoteOn, Note: lastNote})
			on = true
		}
	}
	return out
}

// psgEvents retriggers on every change of quantized note.
func psgEvents(notes []emu.NoteEvent) []Event {
	var out []Event
	var (
		on       bool
		lastNote int
	)
	for _, n := range notes {
		if !n.On {
			if on {
				out = append(out, Event{Time: n.Time, Kind: NoteOff, Note: lastNote})
				on = false
			}
			continue
		}

		note := emu.PSGNote(n.Freq)
		switch {
		case !on:
			out = append(out, Event{Time: n.Time, Kind: NoteOn, Note: note})
			on = true
		case note != lastNote:
			out = append(out,
				Event{Time: n.Time, Kind: NoteOff, Note: lastNote},
				Event{Time: n.Time, Kind: NoteOn, Note: note})
		}
		lastNote = note
	}
	return out
}
