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

import "math"

// MaxDenominator is the largest denominator that fits the 20-bit P3 field of
// the Si5351 parameter blocks.
const MaxDenominator = 1<<20 - 1

/*
FareyFraction finds the fraction num/den closest to f such that
1 <= den <= maxDen. The value f must lie strictly between 0 and 1. If it does
not, or if maxDen is less than 2, the result is 0/1.

The search walks down the Stern-Brocot tree. We keep two bracketing fractions
a/b and c/d, starting at 0/1 and 1/1, and repeatedly replace one of them with
the mediant (a+c)/(b+d). Every fraction with a denominator up to maxDen that
lies between the brackets is a descendant of the mediant, so when the mediant's
denominator gets too big, one of the two brackets must be the best
approximation we can get.

A mediant that lands exactly on f moves the lower bracket, and at the end the
upper bracket only wins if it is strictly closer. Both rules favour a/b.

Each step grows b+d, so the number of steps is bounded by maxDen. Values very
close to 0 or 1 take the longest; at 2^20 that is about a million cheap steps.
*/
func FareyFraction(f float64, maxDen uint32) (num, den uint32) {
	if !(f > 0 && f < 1) || maxDen <= 1 {
		return 0, 1
	}

	// 64-bit so that b+d cannot wrap for very large limits
	a, b, c, d := uint64(0), uint64(1), uint64(1), uint64(1)
	for {
		mn, md := a+c, b+d
		if md > uint64(maxDen) {
			break
		}
		if f < float64(mn)/float64(md) {
			c, d = mn, md
		} else {
			a, b = mn, md
		}
	}

	if math.Abs(f-float64(c)/float64(d)) < math.Abs(f-float64(a)/float64(b)) {
		return uint32(c), uint32(d)
	}
	return uint32(a), uint32(b)
}
