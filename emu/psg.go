package emu

import sn76489 "github.com/user-none/go-chip-sn76489"

// psgSilent is the attenuation value that mutes a PSG channel.
const psgSilent = 0x0F

// psgLatch remembers which register a data-only byte belongs to.
//
// A byte with bit 7 set (1 RRR DDDD) latches register RRR and carries its
// low four data bits. A byte with bit 7 clear (0 X DDDDDD) carries six more
// bits for whatever register is latched. Even registers are tone/noise,
// odd registers are attenuation; register/2 is the channel.
type psgLatch struct {
	reg uint8
}

// decode returns the register targeted by value and whether value was a
// latch byte. Latch bytes move the latch.
func (l *psgLatch) decode(value uint8) (reg uint8, latched bool) {
	if value&0x80 != 0 {
		l.reg = (value >> 4) & 0x07
		return l.reg, true
	}
	return l.reg, false
}

// PSG is the SN76489 half of the register file. Register storage is the
// chip model itself; the interpreter tracks only the latch and each
// channel's last audible state.
type PSG struct {
	chip  *sn76489.SN76489
	latch psgLatch
	on    [PSGChannels]bool
}

// NewPSG creates the PSG register file with every channel silent.
func NewPSG(clockHz int) *PSG {
	return &PSG{
		chip: sn76489.New(clockHz, OutputRate, 1, sn76489.Sega),
	}
}

// Frequency returns the 10-bit tone divider of channels 0-2, or the noise
// control register for channel 3.
func (p *PSG) Frequency(ch int) int {
	if ch == PSGChannels-1 {
		return int(p.chip.GetNoiseReg())
	}
	return int(p.chip.GetToneReg(ch))
}

// Volume returns the 4-bit attenuation of a channel (0 = loudest).
func (p *PSG) Volume(ch int) uint8 {
	return p.chip.GetVolume(ch)
}

// On reports whether the channel was audible after the last write.
func (p *PSG) On(ch int) bool {
	return p.on[ch]
}

// Latched returns the register index data-only bytes currently target.
func (p *PSG) Latched() uint8 {
	return p.latch.reg
}

// writePSG applies one PSG byte and appends a note event when a channel
// becomes audible or silent, or when a sounding tone is retuned.
// Audibility is always read back from the chip after the write.
func (in *Interpreter) writePSG(value uint8) {
	p := in.psg
	reg, latched := p.latch.decode(value)
	p.chip.Write(value)

	ch := int(reg >> 1)
	track := psgTrackBase + ch

	if reg&1 != 0 {
		// Data bytes reach a latched attenuation register as well.
		on := p.Volume(ch) != psgSilent
		if on != p.on[ch] {
			p.on[ch] = on
			in.appendNote(track, on, p.Frequency(ch), 0)
		}
		return
	}

	// The high six bits complete a divider, so that is when a retune of a
	// sounding channel is reported.
	if !latched && p.on[ch] {
		in.appendNote(track, true, p.Frequency(ch), 0)
	}
}
