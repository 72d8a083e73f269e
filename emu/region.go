package emu

// OutputRate is the VGM sample clock. Every timestamp produced by the
// interpreter is counted in ticks of this rate.
const OutputRate = 44100

// RegionTiming holds the clock constants of one console region.
// The YM2612 runs from the M68K clock and the PSG from the Z80 clock.
type RegionTiming struct {
	YM2612ClockHz  int // Motorola 68000 clock frequency
	SN76489ClockHz int // Z80 sound CPU clock frequency
	FrameWait      int // Samples per video frame at OutputRate
}

// NTSC timing: M68K 7.670454 MHz, Z80 3.579545 MHz, 60 Hz
var NTSCTiming = RegionTiming{
	YM2612ClockHz:  7670454,
	SN76489ClockHz: 3579545,
	FrameWait:      735,
}

// PAL timing: M68K 7.600489 MHz, Z80 3.546893 MHz, 50 Hz
var PALTiming = RegionTiming{
	YM2612ClockHz:  7600489,
	SN76489ClockHz: 3546893,
	FrameWait:      882,
}

// TimingForClock picks the region whose PSG clock matches clockHz.
// The clock is masked to 30 bits since VGM uses the top bits as flags.
// Unknown clocks fall back to NTSC with the PSG clock replaced.
func TimingForClock(clockHz uint32) RegionTiming {
	hz := int(clockHz & 0x3FFFFFFF)
	switch hz {
	case 0, NTSCTiming.SN76489ClockHz:
		return NTSCTiming
	case PALTiming.SN76489ClockHz:
		return PALTiming
	}
	t := NTSCTiming
	t.SN76489ClockHz = hz
	return t
}
