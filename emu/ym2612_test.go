package emu

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/user-none/vgmjuice/vgm"
)

func TestYM2612_OperatorOrder(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		fm(0, 0x30, 0x01), // S1
		fm(0, 0x34, 0x02), // S3
		fm(0, 0x38, 0x03), // S2
		fm(0, 0x3C, 0x04), // S4
	)
	c := in.FM().Channel(0)
	for i, want := range []uint8{0x01, 0x03, 0x02, 0x04} {
		if c.Op[i].DTMul != want {
			t.Errorf("op %d: expected DT/MUL 0x%02X, got 0x%02X", i, want, c.Op[i].DTMul)
		}
	}
}

func TestYM2612_OperatorRegisters(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		fm(1, 0x41, 0x11),
		fm(1, 0x51, 0x22),
		fm(1, 0x61, 0x33),
		fm(1, 0x71, 0x44),
		fm(1, 0x81, 0x55),
		fm(1, 0x91, 0x66),
	)
	op := in.FM().Channel(4).Op[0]
	want := Operator{TL: 0x11, RSAR: 0x22, AMDR: 0x33, D2R: 0x44, SLRR: 0x55, SSGEG: 0x66}
	if op != want {
		t.Errorf("expected %+v, got %+v", want, op)
	}
}

func TestYM2612_ChannelRegisters(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, fm(1, 0xB2, 0x3A), fm(1, 0xB6, 0x80))
	c := in.FM().Channel(5)
	if c.FBAlg != 0x3A || c.PanAMSFMS != 0x80 {
		t.Errorf("expected FB/ALG 0x3A and pan 0x80, got 0x%02X and 0x%02X", c.FBAlg, c.PanAMSFMS)
	}
}

func TestYM2612_Ch3Mirror(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		fm(0, 0xAD, 0x12), fm(0, 0xA9, 0x34), // slot 1 -> S1
		fm(0, 0xAC, 0x05), fm(0, 0xA8, 0x06), // slot 0 -> S3
		fm(0, 0xAE, 0x07), fm(0, 0xAA, 0x08), // slot 2 -> S2
		fm(0, 0xA6, 0x22), fm(0, 0xA2, 0x69), // channel 3 -> S4
	)
	want := [4]uint16{0x1234, 0x0506, 0x0708, 0x2269}
	if got := in.FM().Channel(2).Ch3Freq; got != want {
		t.Errorf("expected %04X, got %04X", want, got)
	}
}

func TestYM2612_Ch3SlotsOnPortOne(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, fm(1, 0xAD, 0x01), fm(1, 0xA9, 0x02))
	if got := in.FM().Channel(2).Ch3Freq[0]; got != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04X", got)
	}
}

func TestYM2612_Ch3Mode(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, fm(0, 0x27, 0x7F))
	if got := in.FM().Channel(2).Ch3Mode; got != 0x40 {
		t.Errorf("expected mode 0x40, got 0x%02X", got)
	}
	for _, ch := range []int{0, 1, 3, 4, 5} {
		if in.FM().Channel(ch).Ch3Mode != 0 {
			t.Errorf("channel %d: mode must stay 0", ch)
		}
	}
}

func TestYM2612_LFOMirrored(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, fm(0, 0x22, 0x0B))
	for ch := 0; ch < FMChannels; ch++ {
		if got := in.FM().Channel(ch).LFO; got != 0x0B {
			t.Errorf("channel %d: expected LFO 0x0B, got 0x%02X", ch, got)
		}
	}
}

func TestYM2612_GlobalOnPortOneIgnored(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, fm(1, 0x28, 0xF0))
	if len(in.Track(0)) != 0 {
		t.Error("key on written to port 1 must be ignored")
	}
	if !strings.Contains(log.String(), "port 1") {
		t.Errorf("expected a warning, got %q", log.String())
	}
}

func TestYM2612_InvalidSlotWarns(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, fm(0, 0x33, 0xFF), fm(0, 0xB3, 0xFF))
	if !strings.Contains(log.String(), "reg=33") || !strings.Contains(log.String(), "reg=B3") {
		t.Errorf("expected warnings for slot 3, got %q", log.String())
	}
	for ch := 0; ch < FMChannels; ch++ {
		if in.FM().Channel(ch).Op[0].DTMul != 0 || in.FM().Channel(ch).FBAlg != 0 {
			t.Errorf("channel %d: slot 3 write must not change state", ch)
		}
	}
}

func TestYM2612_LowRegistersWarn(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in, fm(0, 0x10, 0x00))
	if !strings.Contains(log.String(), "unhandled YM2612 register") {
		t.Errorf("expected a warning, got %q", log.String())
	}
}

func TestYM2612_KeyOnSnapshotsChannel(t *testing.T) {
	var log bytes.Buffer
	in := newTestInterpreter(&log)
	run(t, in,
		fm(0, 0xB1, 0x07),
		fm(0, 0x41, 0x10),
		fm(0, 0x28, 0x91), // S1 and S4 on channel 1
	)
	inst := in.Instruments()
	if len(inst) != 1 {
		t.Fatalf("expected 1 instrument, got %d", len(inst))
	}
	if inst[0].FBAlg != 0x07 || inst[0].Op[0].TL != 0x10 || inst[0].KeyOn != 0x90 {
		t.Errorf("unexpected snapshot %+v", inst[0])
	}
}

func TestYM2612_DACRegisters(t *testing.T) {
	var log bytes.Buffer
	samples := &SampleCollector{}
	in := NewInterpreter(Config{
		Logger:  slog.New(slog.NewTextHandler(&log, nil)),
		Samples: samples,
	})
	run(t, in,
		fm(0, 0x2B, 0x80),
		fm(0, 0x2A, 0x10),
		vgm.Wait{Samples: 2},
		fm(0, 0x2A, 0x20),
		fm(0, 0x2B, 0x00),
	)
	if len(samples.Samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples.Samples))
	}
	if samples.Samples[0].Rate != OutputRate {
		t.Errorf("expected rate %d, got %d", OutputRate, samples.Samples[0].Rate)
	}
	if in.SampleCount() != 1 {
		t.Errorf("expected sample count 1, got %d", in.SampleCount())
	}
}
