//go:build rp2040

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

package main

import (
	"fmt"
	"machine"
	"time"

	"github.com/DaveKnell/si5351/src/bus"
	"github.com/DaveKnell/si5351/src/si5351"

	cm "github.com/chiefMarlin/tinygo-drivers/si5351"
)

// The chip drops writes if they come faster than this on a long cable.
const writeRate = 2000

func setupClock() (*si5351.Device, error) {
	// Configure I2C bus
	err := machine.I2C0.Configure(machine.I2CConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to configure I2C0: %w", err)
	}

	// Verify device wired properly
	connected, err := cm.New(machine.I2C0).Connected()
	if err != nil {
		return nil, fmt.Errorf("unable to read device status: %w", err)
	}
	if !connected {
		return nil, fmt.Errorf("unable to connect to SI5351 device")
	}

	w := bus.Throttle(bus.NewI2C(machine.I2C0), writeRate)
	d, err := si5351.New(uint16(bus.AddressDefault), si5351.Crystal25MHz, si5351.Load10pF, w, si5351.LoggerFunc(fmt.Printf))
	if err != nil {
		return nil, err
	}

	// 10MHz reference on CLK0, the 20m WSPR dial on CLK1 from the same PLL, and
	// 28.85MHz on CLK2 from its own PLL
	d.Suspend()
	d.SetDrive(si5351.Clk0, si5351.Drive8mA)
	d.Set(si5351.Clk0, si5351.PLLA, 10_000_000, 0, false, true)
	d.Set(si5351.Clk1, si5351.PLLA, 14_097_100, 0, false, false)
	d.Set(si5351.Clk2, si5351.PLLB, 28_850_000, 0, false, true)
	d.SetDisabled(si5351.AllOutputs, si5351.DisableLow)
	return d, d.Resume()
}

func main() {
	time.Sleep(1000 * time.Millisecond)
	d, err := setupClock()
	if err != nil {
		panic("failed setup: " + err.Error())
	}

	for p := si5351.PLLA; p < si5351.NumPLLs; p++ {
		fmt.Printf("%v: %.1f MHz\n", p, float64(d.VCO(p))/1e6)
	}
	for o := si5351.Clk0; o < si5351.NumOutputs; o++ {
		if f := d.Frequency(o); f != 0 {
			fmt.Printf("%v: %.3f kHz (%.4f Hz off)\n", o, d.OutputFrequency(o)/1e3, d.OutputFrequency(o)-float64(f))
		}
	}
	machine.EnterBootloader()
}
