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

package support

// Params holds a fractional divide ratio a + b/c in the packed P1, P2, P3 form
// used by both the PLL feedback dividers and the output multisynths:
//
//	P1 = 128*a + floor(128*b/c) - 512
//	P2 = 128*b - c*floor(128*b/c)
//	P3 = c
type Params struct {
	P1, P2, P3 uint32
}

/*
Multisynth computes the divider parameters for the ratio target/reference. For
a PLL that is vco/crystal, for an output it is vco/f.

The integer part comes straight from integer division and the fractional part
is approximated by FareyFraction with a denominator limit of MaxDenominator. The
fraction is taken from the remainder rather than from target/reference - a so
that large integer parts do not eat into the precision of the fraction.

The ratio must be at least 4 for P1 to make sense; the planners guarantee that.
*/
func Multisynth(target, reference uint32) Params {
	a := target / reference
	b, c := FareyFraction(float64(target%reference)/float64(reference), MaxDenominator)
	floor := 128 * b / c
	return Params{
		P1: a<<7 + floor - 512,
		P2: b<<7 - c*floor,
		P3: c,
	}
}

// Ratio returns the divide ratio a + b/c described by p.
func (p Params) Ratio() float64 {
	if p.P3 == 0 {
		return 0
	}
	return (float64(p.P1) + 512 + float64(p.P2)/float64(p.P3)) / 128
}

// Block lays the parameters out as the eight consecutive registers of a PLL or
// multisynth parameter block. rdiv is the output divide-by-two count and goes
// in the upper nibble of the third byte; PLL blocks pass 0.
func (p Params) Block(rdiv uint8) [8]byte {
	return [8]byte{
		byte(p.P3 >> 8),
		byte(p.P3),
		rdiv<<4 | byte(p.P1>>16)&0x03,
		byte(p.P1 >> 8),
		byte(p.P1),
		byte(p.P3>>16)&0x0F<<4 | byte(p.P2>>16)&0x0F,
		byte(p.P2 >> 8),
		byte(p.P2),
	}
}
