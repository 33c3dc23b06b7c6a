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
	"errors"
	"fmt"
)

var (
	ErrOutputIndexOutOfRange       = errors.New("si5351: output index out of range")
	ErrFrequencyOutOfRange         = errors.New("si5351: frequency out of range")
	ErrPLLStageOutOfRange          = errors.New("si5351: PLL stage out of range")
	ErrPLLMasterOutOfRange         = errors.New("si5351: PLL master output out of range")
	ErrPLLNotPlanned               = errors.New("si5351: PLL has no master frequency")
	ErrOMDOutOfRange               = errors.New("si5351: OMD divider out of range")
	ErrVCOOutOfRange               = errors.New("si5351: VCO frequency out of range")
	ErrDisableStateIndexOutOfRange = errors.New("si5351: disable state index out of range")
	ErrInvalidDisableState         = errors.New("si5351: invalid disable state")
	ErrInvalidDrive                = errors.New("si5351: invalid drive strength")
	ErrInvalidCrystal              = errors.New("si5351: crystal must be 25 or 27MHz")
	ErrInvalidLoad                 = errors.New("si5351: invalid crystal load")
	ErrNoWriter                    = errors.New("si5351: no register writer")
	ErrTransport                   = errors.New("si5351: register write failed")
)

// ConfigError adds the failing operation and the offending index and value
// to one of the sentinel errors above.
type ConfigError struct {
	Op    string
	Index fmt.Stringer // Output or PLL, may be nil
	Value uint32
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Index == nil {
		return fmt.Sprintf("%s: %v (%d)", e.Op, e.Err, e.Value)
	}
	return fmt.Sprintf("%s %v: %v (%d)", e.Op, e.Index, e.Err, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(op string, index fmt.Stringer, value uint32, err error) error {
	return &ConfigError{Op: op, Index: index, Value: value, Err: err}
}
