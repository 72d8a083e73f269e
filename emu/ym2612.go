package emu

import "log/slog"

// Operator holds the raw register bytes of one FM operator. Values are
// stored exactly as written; the hardware accepts any byte.
type Operator struct {
	DTMul uint8 // $30 DT1/MUL
	TL    uint8 // $40 total level (attenuation, 7-bit)
	RSAR  uint8 // $50 RS/AR
	AMDR  uint8 // $60 AM/D1R
	D2R   uint8 // $70 D2R (aka SR)
	SLRR  uint8 // $80 D1L/RR
	SSGEG uint8 // $90 SSG-EG
}

// Channel holds the raw register state of one FM channel.
type Channel struct {
	Op [4]Operator // S1, S2, S3, S4

	FBAlg     uint8     // $B0 feedback/algorithm
	PanAMSFMS uint8     // $B4 L/R/AMS/FMS
	LFO       uint8     // $22 low nibble, mirrored to every channel
	KeyOn     uint8     // $28 bits 7-4 (bit4=S1 .. bit7=S4)
	Ch3Mode   uint8     // $27 bits 7-6, channel 3 only
	Ch3Freq   [4]uint16 // per-operator frequencies used in channel 3 special mode
}

// OperatorActive reports whether operator i is keyed on.
func (c *Channel) OperatorActive(i int) bool {
	return c.KeyOn&(0x10<<uint(i)) != 0
}

// YM2612 is the FM half of the register file.
type YM2612 struct {
	ch [6]Channel

	// Frequency registers: $A4 in the high byte, $A0 in the low byte.
	// Bits 13-11 are the block, bits 10-0 the F-number.
	freq [6]uint16

	// Channel 3 special mode frequencies for the $A8-$AA/$AC-$AE slots.
	ch3Freq [3]uint16
}

// Channel returns the register state of FM channel i (0-5).
func (y *YM2612) Channel(i int) *Channel {
	return &y.ch[i]
}

// Freq returns the raw block/F-number value of channel i.
func (y *YM2612) Freq(i int) int {
	return int(y.freq[i])
}

// refreshCh3 mirrors the special mode frequencies onto channel 3.
// Slot order on the chip is $A9=S1, $A8=S3, $AA=S2, $A2=S4.
func (y *YM2612) refreshCh3() {
	c := &y.ch[2]
	c.Ch3Freq[0] = y.ch3Freq[1]
	c.Ch3Freq[1] = y.ch3Freq[0]
	c.Ch3Freq[2] = y.ch3Freq[2]
	c.Ch3Freq[3] = y.freq[2]
}

// operatorOrder maps register slot bits to operator index.
// Register order is S1(0), S3(1), S2(2), S4(3) but we store as 0,1,2,3 = S1,S2,S3,S4.
var operatorOrder = [4]int{0, 2, 1, 3}

// writeYM2612 applies a register write to the FM register file and appends
// any note events the write implies.
// port: 0 = Part I (channels 0-2), 1 = Part II (channels 3-5)
func (in *Interpreter) writeYM2612(port, reg, val uint8) {
	switch {
	case reg < 0x20:
		in.warnYM2612("unhandled YM2612 register", port, reg, val)
	case reg < 0x30:
		// Global registers $20-$2F (only valid in Part I). Port 1 copies are
		// dropped here even for $28/$2A/$2B, which some loggers replay there.
		if port != 0 {
			in.warnYM2612("global YM2612 register written on port 1", port, reg, val)
			return
		}
		in.writeGlobalRegister(reg, val)
	case reg&0x03 == 3:
		in.warnYM2612("weird YM2612 register write", port, reg, val)
	case reg < 0xA0:
		in.writeOperatorRegister(port, reg, val)
	default:
		in.writeChannelRegister(port, reg, val)
	}
}

// writeGlobalRegister handles writes to registers $20-$2F.
func (in *Interpreter) writeGlobalRegister(reg, val uint8) {
	switch reg {
	case 0x22:
		// LFO enable/frequency
		for i := range in.fm.ch {
			in.fm.ch[i].LFO = val & 0x0F
		}
	case 0x27:
		// Channel 3 mode (timer bits are not musical)
		in.fm.ch[2].Ch3Mode = val & 0xC0
	case 0x28:
		in.writeKeyOnOff(val)
	case 0x2A:
		in.dac.Write(val, in.now)
	case 0x2B:
		in.dac.SetEnabled(val&0x80 != 0, in.now)
	}
}

// writeKeyOnOff handles the Key On/Off register ($28).
// val bits 0-2: channel (0-2=Part I, 4-6=Part II)
// val bits 4-7: operator enable (bit4=S1, bit5=S2, bit6=S3, bit7=S4)
// Only a change between "all operators off" and "any operator on" is a note.
func (in *Interpreter) writeKeyOnOff(val uint8) {
	chLow := int(val & 0x03)
	if chLow == 3 {
		in.warnYM2612("weird YM2612 register write", 0, 0x28, val)
		return
	}
	chIdx := chLow
	if val&0x04 != 0 {
		chIdx += 3 // Part II channels
	}

	ch := &in.fm.ch[chIdx]
	mask := val & 0xF0

	if ch.KeyOn != 0 && mask != 0 && mask != ch.KeyOn {
		in.log.Warn("unexpected key on update",
			"channel", chIdx, "from", hexByte(ch.KeyOn), "to", hexByte(mask), "tick", in.now)
	}

	if (ch.KeyOn == 0) != (mask == 0) {
		ch.KeyOn = mask
		if mask != 0 {
			in.lastInstrument[chIdx] = in.instruments.FindOrCreate(ch)
		}
		in.appendNote(chIdx, mask != 0, in.fm.Freq(chIdx), in.lastInstrument[chIdx])
	}
	ch.KeyOn = mask
}

// writeOperatorRegister handles writes to registers $30-$9F.
func (in *Interpreter) writeOperatorRegister(port, reg, val uint8) {
	chIdx := int(port)*3 + int(reg&0x03)
	op := &in.fm.ch[chIdx].Op[operatorOrder[(reg>>2)&0x03]]

	switch reg & 0xF0 {
	case 0x30:
		op.DTMul = val
	case 0x40:
		op.TL = val
	case 0x50:
		op.RSAR = val
	case 0x60:
		op.AMDR = val
	case 0x70:
		op.D2R = val
	case 0x80:
		op.SLRR = val
	case 0x90:
		op.SSGEG = val
	}
}

// writeChannelRegister handles writes to registers $A0-$B6.
func (in *Interpreter) writeChannelRegister(port, reg, val uint8) {
	chIdx := int(port)*3 + int(reg&0x03)
	slot := reg & 0x03

	switch reg & 0xFC {
	case 0xA0:
		// F-Number LSB. The MSB is latched on the chip until this write,
		// so this is where a pitch change while sounding becomes audible.
		in.fm.freq[chIdx] = in.fm.freq[chIdx]&0xFF00 | uint16(val)
		if in.fm.ch[chIdx].KeyOn != 0 {
			in.appendNote(chIdx, true, in.fm.Freq(chIdx), in.lastInstrument[chIdx])
		}
	case 0xA4:
		// Block + F-Number MSB
		in.fm.freq[chIdx] = in.fm.freq[chIdx]&0x00FF | uint16(val)<<8
	case 0xA8:
		in.fm.ch3Freq[slot] = in.fm.ch3Freq[slot]&0xFF00 | uint16(val)
	case 0xAC:
		in.fm.ch3Freq[slot] = in.fm.ch3Freq[slot]&0x00FF | uint16(val)<<8
	case 0xB0:
		in.fm.ch[chIdx].FBAlg = val
		return
	case 0xB4:
		in.fm.ch[chIdx].PanAMSFMS = val
		return
	default:
		in.warnYM2612("unhandled YM2612 register", port, reg, val)
		return
	}

	// Special mode can be toggled independently of these writes, so the
	// channel 3 mirror is always rebuilt in full.
	in.fm.refreshCh3()
}

func (in *Interpreter) warnYM2612(msg string, port, reg, val uint8) {
	in.log.Warn(msg,
		slog.Int("port", int(port)),
		slog.String("reg", hexByte(reg)),
		slog.String("value", hexByte(val)),
		slog.Int64("tick", in.now))
}
