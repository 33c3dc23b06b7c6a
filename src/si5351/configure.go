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

import (
	"fmt"

	"github.com/DaveKnell/si5351/src/support"
)

// plan is the outcome of one configuration pass before anything is written.
type plan struct {
	writes []Write
	vco    [NumPLLs]uint32
	pll    [NumPLLs]support.Params
	synth  [NumOutputs]support.Params
	rdiv   [NumOutputs]uint8
	src    [NumOutputs]PLL
}

func (p *plan) add(reg, val uint8) {
	p.writes = append(p.writes, Write{Reg: reg, Val: val})
}

func (p *plan) block(reg uint8, b [8]byte) {
	for i, v := range b {
		p.add(reg+uint8(i), v)
	}
}

// Plan returns the register writes a configuration pass would make for the
// current settings, without writing anything.
func (d *Device) Plan() ([]Write, error) {
	p, err := d.plan()
	if err != nil {
		return nil, err
	}
	return p.writes, nil
}

/*
plan validates the settings and builds the complete write sequence for one
pass. The order matters to the chip: outputs are disabled and powered down
before the PLLs are touched, and only enabled again in the final write.

Nothing is written here. Any error comes back before a single register has
changed, so a bad setting never leaves the chip half configured.
*/
func (d *Device) plan() (*plan, error) {
	p := &plan{writes: make([]Write, 0, 12+2*8+NumOutputs*10+1)}

	p.add(regDisableState0, disableByte(d.clocks[0:4]))
	p.add(regDisableState1, disableByte(d.clocks[4:8]))
	p.add(regOutputEnable, 0xFF)
	for o := Clk0; o < NumOutputs; o++ {
		p.add(regClockControl+uint8(o), ctlPowerDown)
	}
	p.add(regCrystalLoad, crystalLoadRs|uint8(d.load))

	for s := PLLA; s < NumPLLs; s++ {
		vco, ms, err := d.planPLL(s)
		if err != nil {
			return nil, err
		}
		if vco == 0 {
			continue
		}
		p.vco[s], p.pll[s] = vco, ms
		p.block(pllBlock(s), ms.Block(0))
	}

	var oe uint8
	for o := Clk0; o < NumOutputs; o++ {
		c := &d.clocks[o]
		if c.freq == 0 {
			oe |= 1 << o
			continue
		}
		ms, rdiv, err := d.planOutput(o, &p.vco)
		if err != nil {
			return nil, err
		}
		p.synth[o], p.rdiv[o], p.src[o] = ms, rdiv, c.pll
		p.block(synthBlock(o), ms.Block(rdiv))
		p.add(regPhaseBase+uint8(o), uint8(c.phase)&phaseMask)
		p.add(regClockControl+uint8(o), controlByte(c))
	}
	p.add(regOutputEnable, oe)
	return p, nil
}

// configure runs a full configuration pass unless changes are being batched.
func (d *Device) configure() error {
	if d.mode == batched {
		return nil
	}
	p, err := d.plan()
	if err != nil {
		return d.fail(err)
	}
	d.commit(p)
	if err := d.emit(p.writes); err != nil {
		return d.fail(err)
	}
	return nil
}

func (d *Device) commit(p *plan) {
	for s := range d.stages {
		d.stages[s].vco = p.vco[s]
	}
	d.pll = p.pll
	d.synth = p.synth
	d.rdiv = p.rdiv
	d.src = p.src
}

// emit sends the writes in order and stops at the first one that fails.
// Whatever was written before that stays written.
func (d *Device) emit(ws []Write) error {
	for _, w := range ws {
		if err := d.w.WriteRegister(d.dev, w.Reg, w.Val); err != nil {
			return fmt.Errorf("%w: register %d: %w", ErrTransport, w.Reg, err)
		}
	}
	return nil
}
