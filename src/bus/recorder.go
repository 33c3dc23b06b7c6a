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

package bus

import "fmt"

// Write is one recorded register write.
type Write struct {
	Dev any   `json:"-" yaml:"-"`
	Reg uint8 `json:"reg" yaml:"reg"`
	Val uint8 `json:"val" yaml:"val"`
}

func (w Write) String() string { return fmt.Sprintf("%3d <- %#04x", w.Reg, w.Val) }

// Recorder keeps every write in order, plus the resulting register contents.
// It stands in for a chip in dry runs and tests.
type Recorder struct {
	writes []Write
	regs   [256]uint8

	// If Err is set, writes fail with it and are not recorded.
	Err error
}

func (r *Recorder) WriteRegister(dev any, reg, val uint8) error {
	if r.Err != nil {
		return r.Err
	}
	r.writes = append(r.writes, Write{Dev: dev, Reg: reg, Val: val})
	r.regs[reg] = val
	return nil
}

// Writes returns the writes recorded since the last Reset.
func (r *Recorder) Writes() []Write { return r.writes }

// Register returns the last value written to reg.
func (r *Recorder) Register(reg uint8) uint8 { return r.regs[reg] }

// Reset forgets the recorded writes but keeps the register contents, the same
// as a chip would.
func (r *Recorder) Reset() { r.writes = nil }
