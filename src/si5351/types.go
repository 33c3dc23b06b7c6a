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

import "fmt"

// Frequency limits, all in Hz.
const (
	MinFrequency = 8_000
	MaxFrequency = 150_000_000
	MinVCO       = 600_000_000
	MaxVCO       = 900_000_000

	// Below this the multisynths need the frequency doubled up first (AN619).
	minSynthInput = 500_000

	minOMD      = 8
	maxOMD      = 2047
	maxPrescale = 128
)

// Output selects one of the eight clock outputs.
type Output uint8

const (
	Clk0 Output = iota
	Clk1
	Clk2
	Clk3
	Clk4
	Clk5
	Clk6
	Clk7

	NumOutputs = 8

	// AllOutputs selects every output in SetDisabled.
	AllOutputs Output = 0xFF
)

func (o Output) valid() bool { return o < NumOutputs }

func (o Output) String() string {
	if o == AllOutputs {
		return "CLK*"
	}
	return fmt.Sprintf("CLK%d", uint8(o))
}

// PLL selects one of the two PLL stages.
type PLL uint8

const (
	PLLA PLL = iota
	PLLB

	NumPLLs = 2
)

func (p PLL) valid() bool { return p < NumPLLs }

func (p PLL) String() string {
	switch p {
	case PLLA:
		return "PLLA"
	case PLLB:
		return "PLLB"
	}
	return fmt.Sprintf("PLL(%d)", uint8(p))
}

// Drive is the output drive current.
type Drive uint8

const (
	Drive2mA Drive = iota
	Drive4mA
	Drive6mA
	Drive8mA
)

func (d Drive) valid() bool { return d <= Drive8mA }

// DisableState is what an output pin does while the output is disabled.
type DisableState uint8

const (
	DisableLow DisableState = iota
	DisableHigh
	DisableTristate
	DisableNever
)

func (s DisableState) valid() bool { return s <= DisableNever }

// CrystalFreq is the reference crystal frequency in Hz.
type CrystalFreq uint32

const (
	Crystal25MHz CrystalFreq = 25_000_000
	Crystal27MHz CrystalFreq = 27_000_000
)

func (c CrystalFreq) valid() bool { return c == Crystal25MHz || c == Crystal27MHz }

// CrystalLoad is the internal crystal load capacitance, already shifted into
// bits 7:6 of register 183.
type CrystalLoad uint8

const (
	Load6pF  CrystalLoad = 1 << 6
	Load8pF  CrystalLoad = 2 << 6
	Load10pF CrystalLoad = 3 << 6
)

func (l CrystalLoad) valid() bool { return l == Load6pF || l == Load8pF || l == Load10pF }

// Write is a single register write.
type Write struct {
	Reg uint8 `json:"reg" yaml:"reg"`
	Val uint8 `json:"val" yaml:"val"`
}

func (w Write) String() string { return fmt.Sprintf("%3d <- %#04x", w.Reg, w.Val) }
