package emu

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/user-none/vgmjuice/vgm"
)

// fakeSource replays a fixed command list.
type fakeSource struct {
	cmds   []vgm.Command
	blocks map[uint8][]byte
	err    error // returned instead of io.EOF when set
}

func (f *fakeSource) Next() (vgm.Command, error) {
	if len(f.cmds) == 0 {
		if f.err != nil {
			return nil, f.err
		}
		return nil, io.EOF
	}
	c := f.cmds[0]
	f.cmds = f.cmds[1:]
	return c, nil
}

func (f *fakeSource) DataBlockOfType(t uint8) ([]byte, bool) {
	b, ok := f.blocks[t]
	return b, ok
}

// newTestInterpreter returns an interpreter logging into buf.
func newTestInterpreter(buf *bytes.Buffer) *Interpreter {
	return NewInterpreter(Config{
		Logger:  slog.New(slog.NewTextHandler(buf, nil)),
		Samples: &SampleCollector{},
	})
}

func fm(port, reg, val uint8) vgm.YM2612Write {
	return vgm.YM2612Write{Port: port, Reg: reg, Value: val}
}

func run(t *testing.T, in *Interpreter, cmds ...vgm.Command) {
	t.Helper()
	if err := in.Run(&fakeSource{cmds: cmds}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestInterpreter_Waits(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		vgm.Wait{Samples: 100},
		vgm.WaitShort{Samples: 16},
		vgm.WaitFrame{},
		vgm.WaitFrame{PAL: true},
	)
	if want := int64(100 + 16 + 735 + 882); in.Now() != want {
		t.Errorf("expected tick %d, got %d", want, in.Now())
	}
}

func TestInterpreter_WaitOverride(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		vgm.WaitOverride{Target: 0x62, Samples: 10},
		vgm.WaitOverride{Target: 0x63, Samples: 20},
		vgm.WaitFrame{},
		vgm.WaitFrame{PAL: true},
	)
	if in.Now() != 30 {
		t.Errorf("expected overridden waits to total 30, got %d", in.Now())
	}

	run(t, in, vgm.WaitOverride{Target: 0x61, Samples: 5})
	if !strings.Contains(log.String(), "wait override") {
		t.Error("expected a warning for an override of 0x61")
	}
}

func TestInterpreter_ConfiguredFrameWaits(t *testing.T) {
	var log bytes.Buffer
	in := NewInterpreter(Config{
		Logger:     slog.New(slog.NewTextHandler(&log, nil)),
		FrameWaits: [2]int{700, 0},
	})
	run(t, in, vgm.WaitFrame{}, vgm.WaitFrame{PAL: true})
	if want := int64(700 + 882); in.Now() != want {
		t.Errorf("expected tick %d, got %d", want, in.Now())
	}
}

func TestInterpreter_KeyOnKeyOffEndToEnd(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		vgm.Wait{Samples: 100},
		fm(0, 0xA4, 0x22), // block 4, F-number high 2
		fm(0, 0xA0, 0x69),
		fm(0, 0x28, 0xF0), // all operators on, channel 0
		vgm.Wait{Samples: 50},
		fm(0, 0x28, 0x00),
	)

	freq := 0x2269
	want := []NoteEvent{
		{Time: 100, On: true, Freq: freq, Instrument: 0},
		{Time: 150, On: false, Freq: freq, Instrument: 0},
	}
	got := in.Track(0)
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if n := len(in.Instruments()); n != 1 {
		t.Errorf("expected 1 instrument, got %d", n)
	}
	for i := 1; i < NumTracks; i++ {
		if len(in.Track(i)) != 0 {
			t.Errorf("track %d: expected no events, got %d", i, len(in.Track(i)))
		}
	}
}

func TestInterpreter_EventsCountTransitionsOnly(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		fm(0, 0x28, 0x10), // off -> on
		fm(0, 0x28, 0x10), // same mask again
		fm(0, 0x28, 0x30), // different nonzero mask
		fm(0, 0x28, 0x00), // on -> off
		fm(0, 0x28, 0x00), // off again
		fm(0, 0x28, 0xF0), // off -> on
		fm(0, 0x28, 0x00), // on -> off
	)
	if n := len(in.Track(0)); n != 4 {
		t.Errorf("expected 4 events for 4 transitions, got %d", n)
	}
	if !strings.Contains(log.String(), "unexpected key on update") {
		t.Error("expected a warning for the 0x10 -> 0x30 key on update")
	}
}

func TestInterpreter_KeyOnUpdateStoresMask(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		fm(0, 0x28, 0x10),
		fm(0, 0x28, 0x30),
	)
	if got := in.FM().Channel(0).KeyOn; got != 0x30 {
		t.Errorf("expected stored key-on mask 0x30, got 0x%02X", got)
	}
}

func TestInterpreter_KeyOnChannelDecode(t *testing.T) {
	cases := []struct {
		val uint8
		ch  int
	}{
		{0xF0, 0},
		{0xF1, 1},
		{0xF2, 2},
		{0xF4, 3},
		{0xF5, 4},
		{0xF6, 5},
	}
	for _, tc := range cases {
		var log bytes.Buffer
		in := newTestInterpreter(&log)
		run(t, in, fm(0, 0x28, tc.val))
		if len(in.Track(tc.ch)) != 1 {
			t.Errorf("key on 0x%02X: expected an event on channel %d", tc.val, tc.ch)
		}
	}
}

func TestInterpreter_KeyOnInvalidChannel(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, fm(0, 0x28, 0xF3), fm(0, 0x28, 0xF7))
	for i := 0; i < NumTracks; i++ {
		if len(in.Track(i)) != 0 {
			t.Errorf("track %d: expected no events for an invalid channel", i)
		}
	}
	if !strings.Contains(log.String(), "weird YM2612 register write") {
		t.Error("expected a warning for key on channel 3/7")
	}
}

func TestInterpreter_FrequencyGlideWhileKeyOn(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		fm(1, 0xA4, 0x1A),
		fm(1, 0xA0, 0x00),
		fm(0, 0x28, 0xF4), // channel 3 (Part II ch0)
		vgm.Wait{Samples: 10},
		fm(1, 0xA4, 0x1A), // MSB alone: no event
		fm(1, 0xA0, 0x40), // LSB: glide event
		fm(0, 0x28, 0x04),
	)

	got := in.Track(3)
	if len(got) != 3 {
		t.Fatalf("expected on, glide, off; got %+v", got)
	}
	if !got[1].On || got[1].Freq != 0x1A40 || got[1].Time != 10 {
		t.Errorf("unexpected glide event %+v", got[1])
	}
	if got[1].Instrument != got[0].Instrument {
		t.Errorf("glide should reuse instrument %d, got %d", got[0].Instrument, got[1].Instrument)
	}
	if got[2].Freq != 0x1A40 {
		t.Errorf("key off should carry the last frequency, got 0x%04X", got[2].Freq)
	}
	if len(in.Instruments()) != 1 {
		t.Errorf("glide must not create instruments, got %d", len(in.Instruments()))
	}
}

func TestInterpreter_FrequencyWhileKeyOffNoEvent(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, fm(0, 0xA4, 0x22), fm(0, 0xA0, 0x69))
	if len(in.Track(0)) != 0 {
		t.Errorf("expected no events while keyed off, got %d", len(in.Track(0)))
	}
	if in.FM().Freq(0) != 0x2269 {
		t.Errorf("expected frequency 0x2269, got 0x%04X", in.FM().Freq(0))
	}
}

func TestInterpreter_DistinctInstruments(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		fm(0, 0xB0, 0x32),
		fm(0, 0x28, 0xF0),
		fm(0, 0x28, 0x00),
		fm(0, 0xB0, 0x07), // different algorithm
		fm(0, 0x28, 0xF0),
		fm(0, 0x28, 0x00),
		fm(0, 0xB0, 0x32), // back to the first voice
		fm(0, 0x28, 0xF0),
	)
	if n := len(in.Instruments()); n != 2 {
		t.Fatalf("expected 2 instruments, got %d", n)
	}
	track := in.Track(0)
	wantIdx := []int{0, 0, 1, 1, 0}
	for i, w := range wantIdx {
		if track[i].Instrument != w {
			t.Errorf("event %d: expected instrument %d, got %d", i, w, track[i].Instrument)
		}
	}
}

func TestInterpreter_UnknownCommand(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		vgm.Wait{Samples: 5},
		vgm.Unknown{Op: 0xA0, Args: []byte{0x07, 0x3E}},
		vgm.Wait{Samples: 5},
	)
	if in.Now() != 10 {
		t.Errorf("unknown command must not alter timing, got tick %d", in.Now())
	}
	if !strings.Contains(log.String(), "unhandled command") || !strings.Contains(log.String(), "opcode=A0") {
		t.Errorf("expected an unhandled command warning, got %q", log.String())
	}
}

func TestInterpreter_StreamErrorIsFatal(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	src := &fakeSource{
		cmds: []vgm.Command{vgm.Wait{Samples: 1}},
		err:  vgm.ErrTruncated,
	}
	err := in.Run(src)
	if !stderrors.Is(err, vgm.ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestInterpreter_StreamedDAC(t *testing.T) {
	var log bytes.Buffer
	samples := &SampleCollector{}
	in := NewInterpreter(Config{
		Logger:  slog.New(slog.NewTextHandler(&log, nil)),
		Samples: samples,
	})
	src := &fakeSource{
		cmds: []vgm.Command{
			fm(0, 0x2B, 0x80),
			vgm.PCMSeek{Offset: 1},
			vgm.DACWrite{Wait: 2},
			vgm.DACWrite{Wait: 2},
			vgm.DACWrite{Wait: 0},
			fm(0, 0x2B, 0x00),
		},
		blocks: map[uint8][]byte{0x00: {0xAA, 0x11, 0x22, 0x33}},
	}
	if err := in.Run(src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if in.Now() != 4 {
		t.Errorf("expected DAC waits to total 4, got %d", in.Now())
	}
	if len(samples.Samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples.Samples))
	}
	s := samples.Samples[0]
	if !bytes.Equal(s.Data, []byte{0x11, 0x22, 0x33}) {
		t.Errorf("expected data from the seek offset, got %v", s.Data)
	}
	if want := 3 * OutputRate / 4; s.Rate != want {
		t.Errorf("expected rate %d, got %d", want, s.Rate)
	}
}

func TestInterpreter_StreamedDACWithoutBlock(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, vgm.DACWrite{Wait: 3})
	if in.Now() != 3 {
		t.Errorf("wait must apply without PCM data, got tick %d", in.Now())
	}
	if !strings.Contains(log.String(), "outside PCM data") {
		t.Error("expected a warning for missing PCM data")
	}
}

func TestInterpreter_PSGChannelsFollowFM(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, vgm.PSGWrite{Value: 0xD0}) // channel 2 volume 0
	if len(in.Track(psgTrackBase+2)) != 1 {
		t.Errorf("expected PSG channel 2 on track %d", psgTrackBase+2)
	}
}
