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

// Package bus has the register writers that carry a configuration to a clock
// generator: one for an I2C bus, one that paces another writer, and one that
// only records.
package bus

import (
	"errors"

	"tinygo.org/x/drivers"
)

// AddressDefault is the 7-bit I2C address of an Si5351 with ADDR tied low.
const AddressDefault = 0x60

var ErrBadHandle = errors.New("bus: device handle is not an I2C address")

// Writer is the single-register write used by every type in this package.
type Writer interface {
	WriteRegister(dev any, reg, val uint8) error
}

// I2C writes registers over an I2C bus, one two-byte transaction per register.
// The device handle is the 7-bit address of the chip.
type I2C struct {
	bus drivers.I2C

	// fixed buffer to avoid per-write allocations
	w [2]byte
}

func NewI2C(bus drivers.I2C) *I2C {
	return &I2C{bus: bus}
}

func (b *I2C) WriteRegister(dev any, reg, val uint8) error {
	addr, ok := address(dev)
	if !ok {
		return ErrBadHandle
	}
	b.w[0] = reg
	b.w[1] = val
	return b.bus.Tx(addr, b.w[:], nil)
}

func address(dev any) (uint16, bool) {
	switch a := dev.(type) {
	case uint16:
		return a, a < 0x80
	case uint8:
		return uint16(a), a < 0x80
	case int:
		return uint16(a), a >= 0 && a < 0x80
	}
	return 0, false
}
