package patch

// Tracker formats store decoded parameters, one byte each.

// encodeTFI writes a TFM Music Maker instrument.
func encodeTFI(v voice, _ string) []byte {
	b := []byte{byte(v.al()), byte(v.fb())}
	for _, op := range fileOrder {
		b = append(b,
			byte(v.mul(op)),
			v.centeredDT(op),
			byte(v.tl(op)),
			byte(v.rs(op)),
			byte(v.ar(op)),
			byte(v.dr(op)),
			byte(v.sr(op)),
			byte(v.rr(op)),
			byte(v.sl(op)),
			byte(v.ssg(op)),
		)
	}
	return b
}

// encodeVGI writes a VGM Music Maker instrument. It extends TFI with the
// LFO sensitivities and stores the AM flag in bit 7 of D1R.
func encodeVGI(v voice, _ string) []byte {
	b := []byte{byte(v.al()), byte(v.fb()), byte(v.ams()<<4 | v.fms())}
	for _, op := range fileOrder {
		b = append(b,
			byte(v.mul(op)),
			v.centeredDT(op),
			byte(v.tl(op)),
			byte(v.rs(op)),
			byte(v.ar(op)),
			byte(v.am(op)<<7|v.dr(op)),
			byte(v.sr(op)),
			byte(v.rr(op)),
			byte(v.sl(op)),
			byte(v.ssg(op)),
		)
	}
	return b
}

const (
	dmpVersion = 0x0B
	dmpGenesis = 0x02
	dmpFM      = 0x01
)

func dmpOperators(v voice) []byte {
	var b []byte
	for _, op := range fileOrder {
		b = append(b,
			byte(v.mul(op)),
			byte(v.tl(op)),
			byte(v.ar(op)),
			byte(v.dr(op)),
			byte(v.sl(op)),
			byte(v.rr(op)),
			byte(v.am(op)),
			byte(v.rs(op)),
			v.centeredDT(op),
			byte(v.sr(op)),
			byte(v.ssg(op)),
		)
	}
	return b
}

// encodeDMP writes a DefleMask version 11 Genesis FM instrument.
func encodeDMP(v voice, _ string) []byte {
	b := []byte{dmpVersion, dmpGenesis, dmpFM, byte(v.fms()), byte(v.fb()), byte(v.al()), byte(v.ams())}
	return append(b, dmpOperators(v)...)
}

// encodeDMP0 writes the version 0 layout, which has no system byte and
// no AMS.
func encodeDMP0(v voice, _ string) []byte {
	b := []byte{0, dmpFM, byte(v.fms()), byte(v.fb()), byte(v.al())}
	return append(b, dmpOperators(v)...)
}
