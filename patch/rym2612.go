package patch

import (
	"fmt"
	"strings"
)

// muls maps MUL 0..15 onto the plugin's 0..15000 scale.
var muls = [16]int{0, 1054, 1581, 2635, 3689, 4743, 5797, 6851, 7905, 8959, 10013, 10540, 11594, 12648, 14229, 15000}

// encodeRYM2612 writes a preset for the RYM2612 plugin. Carrier total level
// is split evenly between level and velocity sensitivity.
func encodeRYM2612(v voice, name string) []byte {
	buf := make([][]string, 4)
	for op := 0; op < 4; op++ {
		i := op + 1
		tl := 127 - v.tl(op)
		vel := 0
		if carriers[v.al()][op] {
			vel = tl / 2
			tl -= vel
		}
		buf[op] = []string{
			fmt.Sprintf(`  <PARAM id="OP%dVel" value="%.1f"/>`, i, float64(vel)),
			fmt.Sprintf(`  <PARAM id="OP%dTL" value="%.1f"/>`, i, float64(tl)),
			fmt.Sprintf(`  <PARAM id="OP%dSSGEG" value="%.1f"/>`, i, float64(v.ssg(op))),
			fmt.Sprintf(`  <PARAM id="OP%dRS" value="%.1f"/>`, i, float64(v.rs(op))),
			fmt.Sprintf(`  <PARAM id="OP%dRR" value="%.1f"/>`, i, float64(v.rr(op))),
			fmt.Sprintf(`  <PARAM id="OP%dMW" value="0.0"/>`, i),
			fmt.Sprintf(`  <PARAM id="OP%dMUL" value="%.1f"/>`, i, float64(muls[v.mul(op)])),
			fmt.Sprintf(`  <PARAM id="OP%dFixed" value="0.0"/>`, i),
			fmt.Sprintf(`  <PARAM id="OP%dDT" value="%.1f"/>`, i, float64(v.signedDT(op))),
			fmt.Sprintf(`  <PARAM id="OP%dD2R" value="%.1f"/>`, i, float64(v.sr(op))),
			fmt.Sprintf(`  <PARAM id="OP%dD2L" value="%.1f"/>`, i, float64(15-v.sl(op))),
			fmt.Sprintf(`  <PARAM id="OP%dD1R" value="%.1f"/>`, i, float64(v.dr(op))),
			fmt.Sprintf(`  <PARAM id="OP%dAR" value="%.1f"/>`, i, float64(v.ar(op))),
			fmt.Sprintf(`  <PARAM id="OP%dAM" value="%.1f"/>`, i, float64(v.am(op))),
		}
	}

	b := new(strings.Builder)
	fmt.Fprintln(b, `<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintln(b, ``)
	fmt.Fprintf(b, `<RYM2612Params patchName="%s" category="Video Games" rating="3" type="User">%s`, name, "\n")
	for i := 0; i < len(buf[0]); i++ {
		for op := 3; 0 <= op; op-- {
			fmt.Fprintln(b, buf[op][i])
		}
	}
	fmt.Fprintln(b, `  <PARAM id="volume" value="0.4483062326908112"/>`)
	fmt.Fprintln(b, `  <PARAM id="Polyphony" value="8.0"/>`)
	fmt.Fprintln(b, `  <PARAM id="Pitchbend_Range" value="12.0"/>`)
	fmt.Fprintln(b, `  <PARAM id="Legato_Retrig" value="0.0"/>`)
	fmt.Fprintf(b, `  <PARAM id="LFO_Speed" value="%.1f"/>%s`, float64(v.LFO&7), "\n")
	fmt.Fprintf(b, `  <PARAM id="LFO_Enable" value="%.1f"/>%s`, float64(v.LFO>>3&1), "\n")
	fmt.Fprintf(b, `  <PARAM id="Feedback" value="%.1f"/>%s`, float64(v.fb()), "\n")
	fmt.Fprintf(b, `  <PARAM id="FMS" value="%.1f"/>%s`, float64(v.fms()), "\n")
	fmt.Fprintf(b, `  <PARAM id="Algorithm" value="%.1f"/>%s`, float64(1+v.al()), "\n")
	fmt.Fprintf(b, `  <PARAM id="AMS" value="%.1f"/>%s`, float64(v.ams()), "\n")
	fmt.Fprintln(b, `  <PARAM id="masterTune"/>`)
	fmt.Fprintln(b, `</RYM2612Params>`)
	return []byte(b.String())
}
