/*
 * Copyright 2025 Ted Dunning
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package si5351

import "github.com/DaveKnell/si5351/src/support"

func frequencyOK(f uint32) bool {
	return f >= MinFrequency && f <= MaxFrequency
}

func checkVCO(vco uint64) error {
	if vco < MinVCO || vco > MaxVCO {
		return ErrVCOOutOfRange
	}
	return nil
}

/*
planPLL picks the VCO frequency for PLL p and works out its feedback divider.

The VCO is an even multiple (the OMD) of the master frequency, so the master
output's own multisynth ends up with an even integer ratio. Masters below
500kHz are doubled first, the same way planOutput does it, so that the master
still lands on an integer ratio after its output divider is applied.

A PLL whose master is switched off is left alone and reports a VCO of zero.
*/
func (d *Device) planPLL(p PLL) (vco uint32, ms support.Params, err error) {
	master := d.stages[p].master
	if !master.valid() {
		return 0, ms, configErr("plan", p, uint32(master), ErrPLLMasterOutOfRange)
	}
	f := d.clocks[master].freq
	if f == 0 {
		d.logf("si5351: %v unused, %v is off", p, master)
		return 0, ms, nil
	}
	if !frequencyOK(f) {
		return 0, ms, configErr("plan", master, f, ErrFrequencyOutOfRange)
	}
	for f < minSynthInput {
		f *= 2
	}

	omd := (MinVCO/f + 3) &^ 1
	if omd < minOMD || omd > maxOMD {
		return 0, ms, configErr("plan", p, omd, ErrOMDOutOfRange)
	}
	v := uint64(f) * uint64(omd)
	if err := checkVCO(v); err != nil {
		return 0, ms, configErr("plan", p, uint32(v), err)
	}
	vco = uint32(v)

	ms = support.Multisynth(vco, uint32(d.crystal))
	d.logf("si5351: %v vco %dHz omd %d p1 %#x p2 %#x p3 %#x", p, vco, omd, ms.P1, ms.P2, ms.P3)
	return vco, ms, nil
}

// planOutput works out the multisynth divider for an active output from the
// VCO frequencies chosen by planPLL. Outputs below 500kHz are doubled up and
// the number of doublings goes to the output's R divider.
func (d *Device) planOutput(o Output, vcos *[NumPLLs]uint32) (ms support.Params, rdiv uint8, err error) {
	c := &d.clocks[o]
	if !c.pll.valid() {
		return ms, 0, configErr("plan", o, uint32(c.pll), ErrPLLStageOutOfRange)
	}
	if !frequencyOK(c.freq) {
		return ms, 0, configErr("plan", o, c.freq, ErrFrequencyOutOfRange)
	}
	vco := vcos[c.pll]
	if vco == 0 {
		return ms, 0, configErr("plan", o, uint32(c.pll), ErrPLLNotPlanned)
	}

	f := c.freq
	for f < minSynthInput && rdiv < maxPrescale {
		f *= 2
		rdiv++
	}
	ms = support.Multisynth(vco, f)
	d.logf("si5351: %v %dHz from %v rdiv %d p1 %#x p2 %#x p3 %#x", o, c.freq, c.pll, rdiv, ms.P1, ms.P2, ms.P3)
	return ms, rdiv, nil
}

// controlByte is the CLKx control register for a powered-up output.
func controlByte(c *clock) uint8 {
	return uint8(c.pll)<<5&ctlPLLSelect |
		bit(c.invert)<<4 |
		ctlSourceMS |
		uint8(c.drive)&ctlDriveMask
}

// disableByte packs the disable states of four outputs, the first one in the
// low bits.
func disableByte(cs []clock) uint8 {
	var b uint8
	for i := len(cs) - 1; i >= 0; i-- {
		b = b<<2 | uint8(cs[i].disable)&0x03
	}
	return b
}

func bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
