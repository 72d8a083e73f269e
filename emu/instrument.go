package emu

// Instrument is a canonical FM voice: a channel register snapshot taken at
// key-on, shared by every note played with the same configuration.
type Instrument Channel

// Instruments deduplicates FM voices in first-seen order.
// Indices are stable and entries are never removed.
type Instruments struct {
	list []Instrument
}

// FindOrCreate returns the index of the instrument matching snapshot,
// appending a new entry when none does. Total levels are not part of the
// comparison; a louder duplicate replaces the stored total levels.
func (s *Instruments) FindOrCreate(snapshot *Channel) int {
	for i := range s.list {
		inst := &s.list[i]
		if !inst.sameVoice(snapshot) {
			continue
		}
		if loudness(snapshot, snapshot) > loudness((*Channel)(inst), snapshot) {
			for j := range inst.Op {
				inst.Op[j].TL = snapshot.Op[j].TL
			}
		}
		return i
	}
	s.list = append(s.list, Instrument(*snapshot))
	return len(s.list) - 1
}

// List returns the canonical instruments, index-addressed.
func (s *Instruments) List() []Instrument {
	return s.list
}

// Len returns the number of canonical instruments.
func (s *Instruments) Len() int {
	return len(s.list)
}

// sameVoice compares everything but total level and the key-on mask.
// Only operators keyed on in c are compared.
func (inst *Instrument) sameVoice(c *Channel) bool {
	if inst.FBAlg != c.FBAlg || inst.PanAMSFMS != c.PanAMSFMS || inst.Ch3Mode != c.Ch3Mode {
		return false
	}
	if inst.Ch3Mode != 0 && inst.Ch3Freq != c.Ch3Freq {
		return false
	}
	for j := range c.Op {
		if !c.OperatorActive(j) {
			continue
		}
		a, b := inst.Op[j], c.Op[j]
		if a.DTMul != b.DTMul ||
			a.RSAR != b.RSAR ||
			a.AMDR != b.AMDR ||
			a.D2R != b.D2R ||
			a.SLRR != b.SLRR ||
			a.SSGEG != b.SSGEG {
			return false
		}
	}
	return true
}

// loudness sums 0x7F-TL over the operators keyed on in active.
func loudness(c *Channel, active *Channel) int {
	sum := 0
	for j := range c.Op {
		if active.OperatorActive(j) {
			sum += 0x7F - int(c.Op[j].TL&0x7F)
		}
	}
	return sum
}
