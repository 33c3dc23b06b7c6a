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

// Register addresses.
const (
	regOutputEnable  = 3
	regClockControl  = 16  // CLK0..CLK7 control, one register each
	regDisableState0 = 24  // CLK3..CLK0, two bits each
	regDisableState1 = 25  // CLK7..CLK4
	regPLLBase       = 26  // 8 registers per PLL
	regSynthBase     = 42  // 8 registers per output multisynth
	regPhaseBase     = 165 // one register per output
	regCrystalLoad   = 183
)

// Clock control register bits.
const (
	ctlPowerDown  = 0x80
	ctlPLLSelect  = 0x20
	ctlInvert     = 0x10
	ctlSourceMS   = 0x0C // output driven by its own multisynth
	ctlDriveMask  = 0x03
	phaseMask     = 0x7F
	crystalLoadRs = 0x12 // reserved bits 5:0 must read back as 010010
)

func pllBlock(p PLL) uint8 { return regPLLBase + 8*uint8(p) }

func synthBlock(o Output) uint8 { return regSynthBase + 8*uint8(o) }
