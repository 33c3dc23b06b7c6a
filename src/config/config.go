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

// Package config reads the description of a clock generator setup from a YAML
// file and turns it into a configured si5351.Device.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/DaveKnell/si5351/src/bus"
	"github.com/DaveKnell/si5351/src/si5351"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
)

// FileName is the configuration file used when none is named.
var FileName = "si5351.yml"

var ErrUnknownValue = errors.New("config: unknown value")

// Output is the setting of one clock output.
type Output struct {
	// Index is the output number, 0 to 7
	Index     int    `koanf:"Index" yaml:"Index" json:"index"`
	PLL       string `koanf:"PLL" yaml:"PLL" json:"pll"`
	Frequency uint32 `koanf:"Frequency" yaml:"Frequency" json:"frequency"`
	Phase     uint32 `koanf:"Phase" yaml:"Phase" json:"phase"`
	Invert    bool   `koanf:"Invert" yaml:"Invert" json:"invert"`

	// Master makes this output set the VCO frequency of its PLL
	Master bool `koanf:"Master" yaml:"Master" json:"master"`

	// Drive is one of 2mA, 4mA, 6mA or 8mA
	Drive string `koanf:"Drive" yaml:"Drive" json:"drive"`

	// Disabled is low, high, tristate or never
	Disabled string `koanf:"Disabled" yaml:"Disabled" json:"disabled"`
}

// Config is a complete clock generator setup plus the settings of the
// programs that use it.
type Config struct {
	// Address is the 7-bit I2C address of the chip
	Address int `koanf:"Address" yaml:"Address" json:"address"`

	// Crystal is the reference frequency in Hz, 25000000 or 27000000
	Crystal uint32 `koanf:"Crystal" yaml:"Crystal" json:"crystal"`

	// Load is the crystal load capacitance, 6pF, 8pF or 10pF
	Load string `koanf:"Load" yaml:"Load" json:"load"`

	// Addr and Root are where the plan server listens
	Addr string `koanf:"Addr" yaml:"Addr" json:"-"`
	Root string `koanf:"Root" yaml:"Root" json:"-"`

	// WriteRate limits register writes per second, 0 for no limit
	WriteRate float64 `koanf:"WriteRate" yaml:"WriteRate" json:"-"`

	Outputs []Output `koanf:"Outputs" yaml:"Outputs" json:"outputs"`
}

// Defaults is a 25MHz crystal with a 10pF load and every output off.
func Defaults() Config {
	return Config{
		Address: bus.AddressDefault,
		Crystal: uint32(si5351.Crystal25MHz),
		Load:    "10pF",
		Addr:    ":8000",
		Root:    "/",
	}
}

// Load reads path over the defaults. A missing file leaves the defaults alone.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("config: defaults: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	c := Config{}
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func ParsePLL(s string) (si5351.PLL, error) {
	switch strings.TrimPrefix(strings.ToUpper(s), "PLL") {
	case "", "A", "0":
		return si5351.PLLA, nil
	case "B", "1":
		return si5351.PLLB, nil
	}
	return 0, fmt.Errorf("%w: PLL %q", ErrUnknownValue, s)
}

func ParseLoad(s string) (si5351.CrystalLoad, error) {
	switch strings.ToLower(s) {
	case "6pf", "6":
		return si5351.Load6pF, nil
	case "8pf", "8":
		return si5351.Load8pF, nil
	case "10pf", "10":
		return si5351.Load10pF, nil
	}
	return 0, fmt.Errorf("%w: load %q", ErrUnknownValue, s)
}

func ParseDrive(s string) (si5351.Drive, error) {
	switch strings.ToLower(s) {
	case "", "2ma", "2":
		return si5351.Drive2mA, nil
	case "4ma", "4":
		return si5351.Drive4mA, nil
	case "6ma", "6":
		return si5351.Drive6mA, nil
	case "8ma", "8":
		return si5351.Drive8mA, nil
	}
	return 0, fmt.Errorf("%w: drive %q", ErrUnknownValue, s)
}

func ParseDisabled(s string) (si5351.DisableState, error) {
	switch strings.ToLower(s) {
	case "", "low":
		return si5351.DisableLow, nil
	case "high":
		return si5351.DisableHigh, nil
	case "tristate", "hiz", "z":
		return si5351.DisableTristate, nil
	case "never":
		return si5351.DisableNever, nil
	}
	return 0, fmt.Errorf("%w: disabled state %q", ErrUnknownValue, s)
}

// setting is an Output with its strings already parsed.
type setting struct {
	o       si5351.Output
	p       si5351.PLL
	drive   si5351.Drive
	disable si5351.DisableState
	Output
}

func (o Output) parse() (s setting, err error) {
	if o.Index < 0 || o.Index >= si5351.NumOutputs {
		return s, fmt.Errorf("config: output %d: %w", o.Index, si5351.ErrOutputIndexOutOfRange)
	}
	s.o = si5351.Output(o.Index)
	s.Output = o
	if s.p, err = ParsePLL(o.PLL); err != nil {
		return s, fmt.Errorf("config: output %d: %w", o.Index, err)
	}
	if s.drive, err = ParseDrive(o.Drive); err != nil {
		return s, fmt.Errorf("config: output %d: %w", o.Index, err)
	}
	if s.disable, err = ParseDisabled(o.Disabled); err != nil {
		return s, fmt.Errorf("config: output %d: %w", o.Index, err)
	}
	return s, nil
}

/*
Apply sets every listed output on d in a single configuration pass. Outputs
that are not listed keep their current settings.

The strings are all checked before d is touched. d is never left suspended,
even when a setting fails.
*/
func (c Config) Apply(d *si5351.Device) error {
	settings := make([]setting, 0, len(c.Outputs))
	for _, o := range c.Outputs {
		s, err := o.parse()
		if err != nil {
			return err
		}
		settings = append(settings, s)
	}

	d.Suspend()
	var err error
	for _, s := range settings {
		if err = s.apply(d); err != nil {
			break
		}
	}
	if rerr := d.Resume(); err == nil {
		err = rerr
	}
	return err
}

func (s setting) apply(d *si5351.Device) error {
	if err := d.SetDrive(s.o, s.drive); err != nil {
		return err
	}
	if err := d.SetDisabled(s.o, s.disable); err != nil {
		return err
	}
	return d.Set(s.o, s.p, s.Frequency, s.Phase, s.Invert, s.Master)
}

// Build creates a device writing through w and applies c to it. If WriteRate
// is set the writes are paced to that many per second.
func (c Config) Build(w si5351.Writer, log si5351.Logger) (*si5351.Device, error) {
	load, err := ParseLoad(c.Load)
	if err != nil {
		return nil, err
	}
	if c.Address < 0 || c.Address >= 0x80 {
		return nil, fmt.Errorf("config: I2C address %#x out of range", c.Address)
	}
	if c.WriteRate > 0 {
		w = bus.Throttle(w, c.WriteRate)
	}
	d, err := si5351.New(uint16(c.Address), si5351.CrystalFreq(c.Crystal), load, w, log)
	if err != nil {
		return nil, err
	}
	if err := c.Apply(d); err != nil {
		return nil, err
	}
	return d, nil
}
