package patch

// Formats that store the operator registers as raw bytes.

// encodeGEMS writes a GEMS 2.8 FM patch: type, LFO, channel 3 mode,
// FB/ALG, L/R/AMS/FMS, $30-$80 for each operator, the four channel 3
// frequencies and the operator key-on mask.
func encodeGEMS(v voice, _ string) []byte {
	b := []byte{0, v.LFO, v.Ch3Mode, v.FBAlg, v.PanAMSFMS}
	for _, op := range fileOrder {
		r := v.registers(op)
		b = append(b, r[:6]...)
	}
	for _, f := range v.Ch3Freq {
		b = append(b, byte(f>>8), byte(f))
	}
	mask := v.KeyOn
	if mask == 0 {
		mask = 0xF0
	}
	return append(b, mask>>4, 0)
}

// encodeTYI writes Tiido's layout: each register group $30-$90 for all
// four operators, then $B0, $B4 and the "YI" tag.
func encodeTYI(v voice, _ string) []byte {
	var b []byte
	for reg := 0; reg < 7; reg++ {
		for _, op := range fileOrder {
			b = append(b, v.registers(op)[reg])
		}
	}
	return append(b, v.FBAlg, v.PanAMSFMS, 'Y', 'I')
}

// encodeEIF writes an Echo instrument: $B0 then each register group.
func encodeEIF(v voice, _ string) []byte {
	b := []byte{v.FBAlg}
	for reg := 0; reg < 7; reg++ {
		for _, op := range fileOrder {
			b = append(b, v.registers(op)[reg])
		}
	}
	return b
}

// encodeY12 writes a GensKMOD dump: 16 bytes per operator, 16 bytes of
// channel registers, then name, dumper and game strings.
func encodeY12(v voice, name string) []byte {
	b := make([]byte, 128)
	for i, op := range fileOrder {
		r := v.registers(op)
		copy(b[i*16:], r[:])
	}
	b[64] = v.FBAlg
	b[65] = v.PanAMSFMS
	copy(b[80:96], name)
	copy(b[96:112], "vgmjuice")
	return b
}

// encodeSMPS writes a Sonic 3 SMPS voice: FB/ALG then DT/MUL, RS/AR,
// AM/D1R, D2R, D1L/RR and TL for each operator.
func encodeSMPS(v voice, _ string) []byte {
	b := []byte{v.FBAlg}
	for _, reg := range []int{0, 2, 3, 4, 5, 1} {
		for _, op := range fileOrder {
			b = append(b, v.registers(op)[reg])
		}
	}
	return b
}
