package patch

import "github.com/user-none/vgmjuice/emu"

// voice decodes the packed YM2612 register bytes of an instrument into
// individual parameters. Operator indices are S1..S4.
type voice struct {
	*emu.Instrument
}

// fileOrder lists operators in register order (S1, S3, S2, S4), the order
// most patch formats store them in.
var fileOrder = [4]int{0, 2, 1, 3}

func (v voice) mul(op int) int { return int(v.Op[op].DTMul & 15) }
func (v voice) dt(op int) int  { return int(v.Op[op].DTMul >> 4 & 7) }
func (v voice) tl(op int) int  { return int(v.Op[op].TL & 127) }
func (v voice) rs(op int) int  { return int(v.Op[op].RSAR >> 6) }
func (v voice) ar(op int) int  { return int(v.Op[op].RSAR & 31) }
func (v voice) am(op int) int  { return int(v.Op[op].AMDR >> 7) }
func (v voice) dr(op int) int  { return int(v.Op[op].AMDR & 31) }
func (v voice) sr(op int) int  { return int(v.Op[op].D2R & 31) }
func (v voice) sl(op int) int  { return int(v.Op[op].SLRR >> 4) }
func (v voice) rr(op int) int  { return int(v.Op[op].SLRR & 15) }
func (v voice) ssg(op int) int { return int(v.Op[op].SSGEG & 15) }

func (v voice) al() int  { return int(v.FBAlg & 7) }
func (v voice) fb() int  { return int(v.FBAlg >> 3 & 7) }
func (v voice) ams() int { return int(v.PanAMSFMS >> 4 & 3) }
func (v voice) fms() int { return int(v.PanAMSFMS & 7) }

// signedDT maps the register's sign-magnitude detune (0-3 up, 4-7 down)
// to -3..3.
func (v voice) signedDT(op int) int {
	dt := v.dt(op)
	if 4 <= dt {
		dt = 4 - dt
	}
	return dt
}

// centeredDT returns the detune as 0..6 with 3 meaning none, as the
// tracker formats store it.
func (v voice) centeredDT(op int) byte {
	return byte(3 + v.signedDT(op))
}

// registers returns the seven operator register bytes ($30-$90) of op.
func (v voice) registers(op int) [7]byte {
	o := v.Op[op]
	return [7]byte{o.DTMul, o.TL, o.RSAR, o.AMDR, o.D2R, o.SLRR, o.SSGEG}
}

// carriers marks the output operators of each algorithm, S1..S4.
var carriers = [8][4]bool{
	{false, false, false, true},
	{false, false, false, true},
	{false, false, false, true},
	{false, false, false, true},
	{false, true, false, true},
	{false, true, true, true},
	{false, true, true, true},
	{true, true, true, true},
}
