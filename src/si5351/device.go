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

/*
Package si5351 plans and programs the Si5351 family of clock generators: two
PLLs running between 600 and 900MHz, each locked to a 25 or 27MHz crystal, and
eight fractional multisynth dividers that turn the PLL frequencies into output
clocks between 8kHz and 150MHz.

Each PLL takes its frequency from one of the outputs, its master. The PLL is
set to an even multiple of the master frequency so that the master's own
multisynth runs in integer mode, and every other output on that PLL gets
whatever fractional divider comes closest.

The package never talks to a bus itself. Every register write goes through a
Writer supplied to New, together with an opaque device handle that is passed
back on each call.
*/
package si5351

import (
	"math"

	"github.com/DaveKnell/si5351/src/support"
)

// Writer delivers a single register write to the chip identified by dev.
type Writer interface {
	WriteRegister(dev any, reg, val uint8) error
}

// WriterFunc adapts a function to a Writer.
type WriterFunc func(dev any, reg, val uint8) error

func (f WriterFunc) WriteRegister(dev any, reg, val uint8) error { return f(dev, reg, val) }

// Logger receives diagnostic messages. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts a Printf-like function such as fmt.Printf or t.Logf.
type LoggerFunc func(format string, args ...any)

func (f LoggerFunc) Printf(format string, args ...any) { f(format, args...) }

type clock struct {
	freq    uint32
	phase   uint32
	pll     PLL
	invert  bool
	drive   Drive
	disable DisableState
}

type stage struct {
	master Output
	vco    uint32
}

// applyMode decides whether a change reaches the chip straight away.
type applyMode uint8

const (
	immediate applyMode = iota // every change runs a configuration pass
	batched                    // changes wait for Resume
)

// Device holds the wanted configuration of one chip. It is not safe for
// concurrent use.
type Device struct {
	dev     any
	w       Writer
	log     Logger
	crystal CrystalFreq
	load    CrystalLoad

	clocks [NumOutputs]clock
	stages [NumPLLs]stage
	mode   applyMode

	// dividers from the last successful pass
	pll   [NumPLLs]support.Params
	synth [NumOutputs]support.Params
	rdiv  [NumOutputs]uint8
	src   [NumOutputs]PLL
}

// New sets up a device with every output off and both PLLs mastered by CLK0,
// and runs a first configuration pass, which powers all the outputs down.
// log may be nil.
func New(dev any, crystal CrystalFreq, load CrystalLoad, w Writer, log Logger) (*Device, error) {
	if w == nil {
		return nil, ErrNoWriter
	}
	if !crystal.valid() {
		return nil, configErr("init", nil, uint32(crystal), ErrInvalidCrystal)
	}
	if !load.valid() {
		return nil, configErr("init", nil, uint32(load), ErrInvalidLoad)
	}
	d := &Device{
		dev:     dev,
		w:       w,
		log:     log,
		crystal: crystal,
		load:    load,
	}
	d.logf("si5351: init crystal %dHz load %#04x", crystal, uint8(load))
	if err := d.configure(); err != nil {
		return nil, err
	}
	return d, nil
}

/*
Set configures output o to run at freq Hz from PLL p with the given phase
offset (in the chip's units, only the low seven bits are used) and polarity.
A frequency of zero turns the output off.

If master is set, o becomes the output that PLL p derives its VCO frequency
from. Other outputs on the same PLL are divided down from that VCO frequency.

The new values are kept even if the configuration pass fails.
*/
func (d *Device) Set(o Output, p PLL, freq, phase uint32, invert, master bool) error {
	if !o.valid() {
		return d.fail(configErr("set", o, uint32(o), ErrOutputIndexOutOfRange))
	}
	c := &d.clocks[o]
	c.freq = freq
	c.phase = phase
	c.invert = invert
	c.pll = p
	if master {
		if !p.valid() {
			return d.fail(configErr("set", p, uint32(p), ErrPLLStageOutOfRange))
		}
		d.stages[p].master = o
		d.logf("si5351: %v is master for %v", o, p)
	}
	return d.configure()
}

// SetDisabled sets what output o does while it is disabled. AllOutputs sets
// every output.
func (d *Device) SetDisabled(o Output, ds DisableState) error {
	if !ds.valid() {
		return d.fail(configErr("set disabled", o, uint32(ds), ErrInvalidDisableState))
	}
	switch {
	case o == AllOutputs:
		for i := range d.clocks {
			d.clocks[i].disable = ds
		}
	case o.valid():
		d.clocks[o].disable = ds
	default:
		return d.fail(configErr("set disabled", nil, uint32(o), ErrDisableStateIndexOutOfRange))
	}
	return d.configure()
}

// SetDrive sets the drive current of output o.
func (d *Device) SetDrive(o Output, drive Drive) error {
	if !o.valid() {
		return d.fail(configErr("set drive", nil, uint32(o), ErrOutputIndexOutOfRange))
	}
	if !drive.valid() {
		return d.fail(configErr("set drive", o, uint32(drive), ErrInvalidDrive))
	}
	d.clocks[o].drive = drive
	return d.configure()
}

// Suspend stops changes from being written until Resume is called, so that
// several outputs can be changed in a single pass.
func (d *Device) Suspend() {
	d.mode = batched
}

// Resume writes everything changed since Suspend in one configuration pass
// and goes back to writing every change immediately.
func (d *Device) Resume() error {
	d.mode = immediate
	return d.configure()
}

// Batching reports whether changes are currently held back by Suspend.
func (d *Device) Batching() bool { return d.mode == batched }

// Frequency returns the requested frequency of output o.
func (d *Device) Frequency(o Output) uint32 {
	if !o.valid() {
		return 0
	}
	return d.clocks[o].freq
}

// Master returns the output that PLL p takes its frequency from.
func (d *Device) Master(p PLL) Output {
	if !p.valid() {
		return AllOutputs
	}
	return d.stages[p].master
}

// VCO returns the VCO frequency of PLL p from the last successful pass, or
// zero if the PLL is unused.
func (d *Device) VCO(p PLL) uint32 {
	if !p.valid() {
		return 0
	}
	return d.stages[p].vco
}

// OutputFrequency returns the frequency output o actually produces with the
// dividers from the last successful pass, or zero if it is off.
func (d *Device) OutputFrequency(o Output) float64 {
	if !o.valid() {
		return 0
	}
	ms, p := d.synth[o], d.src[o]
	if ms.P3 == 0 || d.stages[p].vco == 0 {
		return 0
	}
	vco := float64(d.crystal) * d.pll[p].Ratio()
	return math.Ldexp(vco/ms.Ratio(), -int(d.rdiv[o]))
}

func (d *Device) logf(format string, args ...any) {
	if d.log != nil {
		d.log.Printf(format, args...)
	}
}

func (d *Device) fail(err error) error {
	d.logf("%v", err)
	return err
}
