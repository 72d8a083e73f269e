package emu

import "math"

// Note numbers run from 0 to MaxNote (eight octaves).
const MaxNote = 12*8 - 1

// fmTable holds the F-numbers of one chromatic octave, C to C, at block 0.
var fmTable = [13]int{
	644,  // C
	682,  // C#
	723,  // D
	766,  // D#
	811,  // E
	859,  // F
	910,  // F#
	965,  // G
	1022, // G#
	1083, // A
	1147, // A#
	1215, // B
	1288, // C
}

// psgTable holds concert pitch in Hz for C4..C5.
var psgTable = [13]float64{
	261.63, 277.18, 293.66, 311.13, 329.63, 349.23,
	369.99, 392.00, 415.30, 440.00, 466.16, 493.88, 523.25,
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns a name such as "A4" for note n.
func NoteName(n int) string {
	return noteNames[n%12] + string(rune('0'+n/12))
}

// LinearFrequency expands a raw block/F-number value into F-number << block.
func LinearFrequency(freq int) int {
	return (freq & 0x7FF) << ((freq & 0x3800) >> 11)
}

// FrequencyForNote returns the raw block/F-number value that plays note n.
func FrequencyForNote(n int) int {
	return n/12<<11 | fmTable[n%12]
}

// noteLinear returns the linear frequency of note n.
func noteLinear(n int) int {
	return fmTable[n%12] << uint(n/12)
}

// Note returns the nearest note to a raw block/F-number value, clamped to
// [0, MaxNote]. Neighbours are compared in the log domain using
// f*f > lo*hi, which avoids floating point.
func Note(freq int) int {
	f := LinearFrequency(freq)
	if f < fmTable[0] {
		return 0
	}

	o := 0
	for o < 20 && fmTable[0]<<uint(o) <= f {
		o++
	}
	o--

	n := 0
	for n < 12 && fmTable[n]<<uint(o) <= f {
		n++
	}
	n--

	lo := int64(fmTable[n]) << uint(o)
	hi := int64(fmTable[n+1]) << uint(o)
	if int64(f)*int64(f) > lo*hi {
		n++
	}
	if n == 12 {
		o++
		n = 0
	}

	n += o * 12
	if n > MaxNote {
		n = MaxNote
	}
	return n
}

// PitchBend returns the distance in octaves between a raw block/F-number
// value and note n. It is -Inf for a zero frequency.
func PitchBend(freq, n int) float64 {
	return math.Log2(float64(LinearFrequency(freq)) / float64(noteLinear(n)))
}

// psgClockHz is the clock the PSG note table is built for.
const psgClockHz = 3579545.0

// PSGDivider returns the tone divider closest to note n.
func PSGDivider(n int) int {
	oct := n/12 - 4
	hz := psgTable[n%12] * math.Pow(2, float64(oct))
	return int(uint16(math.Floor(psgClockHz/(2*16*hz) + 0.5)))
}

// PSGNote returns the note whose divider is closest to divider, searching
// 64 semitones upward from A2. The PSG has no fine pitch, so no bend is
// derived.
func PSGNote(divider int) int {
	const first = 2*12 + 9 // A2

	best := -1
	bestDiff := math.MaxInt
	for n := first; n < first+64; n++ {
		diff := PSGDivider(n) - divider
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			best = n
		}
	}
	return best
}
