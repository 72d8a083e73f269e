package vgm

// Command is one decoded entry of the VGM command stream. Each opcode class
// has its own variant carrying only the fields relevant to it.
type Command interface {
	Opcode() uint8
}

// Wait advances time by a 16-bit sample count (0x61).
type Wait struct {
	Samples uint16
}

// WaitFrame advances time by one NTSC (0x62) or PAL (0x63) frame.
// The frame length is owned by the consumer since 0x64 can override it.
type WaitFrame struct {
	PAL bool
}

// WaitOverride replaces the frame length used by a later 0x62/0x63 (0x64).
type WaitOverride struct {
	Target  uint8 // 0x62 or 0x63
	Samples uint16
}

// WaitShort advances time by 1-16 samples (0x7n).
type WaitShort struct {
	Samples uint8
}

// YM2612Write writes Value to register Reg of port 0 (0x52) or port 1 (0x53).
type YM2612Write struct {
	Port  uint8
	Reg   uint8
	Value uint8
}

// PSGWrite writes one byte to the SN76489 (0x50).
type PSGWrite struct {
	Value uint8
}

// GGStereo is the Game Gear PSG stereo write (0x4F).
type GGStereo struct {
	Value uint8
}

// DACWrite writes the next byte of the YM2612 PCM data block to the DAC
// and then waits Wait samples (0x8n).
type DACWrite struct {
	Wait uint8
}

// PCMSeek moves the PCM data block cursor used by DACWrite (0xE0).
type PCMSeek struct {
	Offset uint32
}

// DataBlockLoaded reports that a data block (0x67) was read and stored on
// the reader. Index addresses Reader.DataBlocks.
type DataBlockLoaded struct {
	Type  uint8
	Index int
	Size  int
}

// End marks the end of sound data (0x66).
type End struct{}

// Unknown is any opcode the stream decodes but does not interpret.
type Unknown struct {
	Op   uint8
	Args []byte
}

func (Wait) Opcode() uint8 { return 0x61 }

func (w WaitFrame) Opcode() uint8 {
	if w.PAL {
		return 0x63
	}
	return 0x62
}

func (WaitOverride) Opcode() uint8 { return 0x64 }

func (w WaitShort) Opcode() uint8 { return 0x70 | (w.Samples-1)&0x0F }

func (w YM2612Write) Opcode() uint8 { return 0x52 | w.Port&1 }

func (PSGWrite) Opcode() uint8 { return 0x50 }

func (GGStereo) Opcode() uint8 { return 0x4F }

func (d DACWrite) Opcode() uint8 { return 0x80 | d.Wait&0x0F }

func (PCMSeek) Opcode() uint8 { return 0xE0 }

func (DataBlockLoaded) Opcode() uint8 { return 0x67 }

func (End) Opcode() uint8 { return 0x66 }

func (u Unknown) Opcode() uint8 { return u.Op }

// argCount returns the number of operand bytes following opcode op.
// Data blocks (0x67) are variable length and handled by the reader.
func argCount(op uint8) int {
	switch {
	case op >= 0x30 && op <= 0x3F:
		return 1
	case op >= 0x40 && op <= 0x4E:
		return 2
	case op == 0x4F || op == 0x50:
		return 1
	case op >= 0x51 && op <= 0x5F:
		return 2
	case op == 0x61:
		return 2
	case op == 0x64:
		return 3
	case op == 0x68:
		return 11
	case op == 0x90 || op == 0x91 || op == 0x95:
		return 4
	case op == 0x92:
		return 5
	case op == 0x93:
		return 10
	case op == 0x94:
		return 1
	case op >= 0xA0 && op <= 0xBF:
		return 2
	case op >= 0xC0 && op <= 0xDF:
		return 3
	case op >= 0xE0:
		return 4
	}
	// 0x62/0x63/0x66, 0x7n, 0x8n and the undefined single-byte opcodes
	return 0
}
