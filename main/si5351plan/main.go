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

// si5351plan works out Si5351 register settings on a host machine, either once
// from the command line or as an HTTP service.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/DaveKnell/si5351/src/bus"
	"github.com/DaveKnell/si5351/src/config"
	"github.com/DaveKnell/si5351/src/planhttp"
	"github.com/DaveKnell/si5351/src/si5351"

	yml "gopkg.in/yaml.v2"
)

// Version is the version number. Typically injected via ldflags with git build
var Version = "1"

func root() {
	str := `si5351plan computes the register settings of an Si5351 clock generator
without touching any hardware.

Usage:
	si5351plan <command>

Commands:
	plan
	serve
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `si5351plan reads its setup from ` + config.FileName + ` in the current directory.
When the file is missing the defaults are used: a 25MHz crystal, 10pF load
and every output off. mkconf writes the defaults out as a starting point.

Each entry under Outputs sets one clock:

	Outputs:
	  - Index: 0        # CLK0 to CLK7
	    PLL: A          # A or B
	    Frequency: 10000000
	    Master: true    # this output fixes the PLL's VCO frequency
	    Phase: 0
	    Invert: false
	    Drive: 8mA      # 2mA, 4mA, 6mA or 8mA
	    Disabled: low   # low, high, tristate or never

plan prints the register writes of one configuration pass as YAML.
serve answers POST Root/plan with the same writes for a JSON setup, and
GET Root/limits with the chip's limits. It listens on Addr.`
	fmt.Println(str)
}

func loadconf() config.Config {
	c, err := config.Load(config.FileName)
	if err != nil {
		log.Fatal(err)
	}
	return c
}

func mkconf() {
	c := loadconf()
	f, err := os.Create(config.FileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := loadconf()
	err := yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("si5351plan version %v\n", Version)
}

func plan() {
	c := loadconf()
	rate := c.WriteRate
	c.WriteRate = 0

	d, err := c.Build(&bus.Recorder{}, log.Default())
	if err != nil {
		log.Fatal(err)
	}
	writes, err := d.Plan()
	if err != nil {
		log.Fatal(err)
	}
	for p := si5351.PLLA; p < si5351.NumPLLs; p++ {
		log.Printf("%v: master %v, vco %dHz", p, d.Master(p), d.VCO(p))
	}
	for o := si5351.Clk0; o < si5351.NumOutputs; o++ {
		if f := d.Frequency(o); f != 0 {
			log.Printf("%v: %dHz requested, %.4fHz actual", o, f, d.OutputFrequency(o))
		}
	}
	if rate > 0 {
		t := time.Duration(float64(len(writes)) / rate * float64(time.Second))
		log.Printf("%d writes, %v at %g writes/s", len(writes), t, rate)
	}
	err = yml.NewEncoder(os.Stdout).Encode(writes)
	if err != nil {
		log.Fatal(err)
	}
}

func serve() {
	c := loadconf()
	r := planhttp.NewRouter(c.Root, &planhttp.Planner{Log: log.Default()})
	log.Println("now listening for requests at ", c.Addr+planhttp.SubMuxSanitize(c.Root))
	log.Fatal(http.ListenAndServe(c.Addr, r))
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	cmd := strings.ToLower(args[1])
	switch cmd {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "plan":
		plan()
	case "serve":
		serve()
	case "version":
		pversion()
	default:
		log.Fatal("unknown command")
	}
}
