package timeline

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/user-none/vgmjuice/emu"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	// Resolution makes one MIDI tick one VGM sample at 120 BPM.
	Resolution = emu.OutputRate / 2
	Tempo      = 120.0

	// BendRange is the pitch bend sensitivity in semitones sent on every
	// track. Bend assumes this value.
	BendRange = 12

	velocity = 0x7F
)

// Options controls Write.
type Options struct {
	Title string // conductor track name; empty for none
}

// midiChannel maps a timeline index to its MIDI channel. PSG channels skip
// ahead to 10-13 so they stay clear of the drum channel.
func midiChannel(track int) uint8 {
	if IsPSG(track) {
		return uint8(track + 4)
	}
	return uint8(track)
}

// TrackName returns the MIDI track name for a timeline index.
func TrackName(track int) string {
	if IsPSG(track) {
		return fmt.Sprintf("PSG %02X", track-emu.FMChannels)
	}
	return fmt.Sprintf("YM2612 %02X", track)
}

// Build converts all timelines into a format 1 SMF: a conductor track
// followed by one track per channel.
func Build(tracks [emu.NumTracks][]emu.NoteEvent, opts Options) *smf.SMF {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(Resolution)

	var conductor smf.Track
	if opts.Title != "" {
		conductor.Add(0, smf.MetaTrackSequenceName(opts.Title))
	}
	conductor.Add(0, smf.MetaTempo(Tempo))
	conductor.Close(0)
	s.Add(conductor)

	for i := range tracks {
		s.Add(buildTrack(i, Events(i, tracks[i])))
	}
	return s
}

func buildTrack(i int, events []Event) smf.Track {
	ch := midiChannel(i)
	name := TrackName(i)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(name))
	tr.Add(0, smf.MetaInstrument(name))
	// RPN 0: pitch bend sensitivity
	tr.Add(0, midi.ControlChange(ch, 101, 0))
	tr.Add(0, midi.ControlChange(ch, 100, 0))
	tr.Add(0, midi.ControlChange(ch, 6, BendRange))
	tr.Add(0, midi.ControlChange(ch, 38, 0))

	var last int64
	for _, ev := range events {
		delta := uint32(ev.Time - last)
		last = ev.Time
		switch ev.Kind {
		case NoteOn:
			tr.Add(delta, midi.NoteOn(ch, uint8(ev.Note), velocity))
		case NoteOff:
			tr.Add(delta, midi.NoteOffVelocity(ch, uint8(ev.Note), velocity))
		case PitchBend:
			tr.Add(delta, midi.Pitchbend(ch, ev.Bend))
		}
	}
	tr.Close(0)
	return tr
}

// Write serializes all timelines as a Standard MIDI File.
func Write(w io.Writer, tracks [emu.NumTracks][]emu.NoteEvent, opts Options) error {
	if _, err := Build(tracks, opts).WriteTo(w); err != nil {
		return errors.Wrap(err, "write MIDI")
	}
	return nil
}
