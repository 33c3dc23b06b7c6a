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

// Package planhttp serves frequency plans over HTTP. A client posts a
// configuration and gets back the register writes that would program it.
// Nothing is written to any hardware.
package planhttp

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/DaveKnell/si5351/src/bus"
	"github.com/DaveKnell/si5351/src/config"
	"github.com/DaveKnell/si5351/src/si5351"

	"github.com/go-chi/chi"
)

// MethodPath is an HTTP method and the path it is served on.
type MethodPath struct {
	Method, Path string
}

// RouteTable maps endpoints to their handlers.
type RouteTable map[MethodPath]http.HandlerFunc

// Endpoints lists the routes in rt as "METHOD /path", sorted.
func (rt RouteTable) Endpoints() []string {
	routes := make([]string, 0, len(rt))
	for mp := range rt {
		routes = append(routes, mp.Method+" "+mp.Path)
	}
	sort.Strings(routes)
	return routes
}

// Bind adds every route in rt to r.
func (rt RouteTable) Bind(r chi.Router) {
	for mp, h := range rt {
		r.MethodFunc(mp.Method, mp.Path, h)
	}
}

// Limits are the ranges a configuration has to stay inside.
type Limits struct {
	MinFrequency uint32   `json:"minFrequency"`
	MaxFrequency uint32   `json:"maxFrequency"`
	MinVCO       uint32   `json:"minVCO"`
	MaxVCO       uint32   `json:"maxVCO"`
	Crystals     []uint32 `json:"crystals"`
	Outputs      int      `json:"outputs"`
	PLLs         int      `json:"plls"`
}

// Planner answers plan requests. Log may be nil.
type Planner struct {
	Log si5351.Logger
}

// RT returns the routes of the planner.
func (p *Planner) RT() RouteTable {
	return RouteTable{
		{http.MethodPost, "/plan"}:  p.Plan,
		{http.MethodGet, "/limits"}: GetLimits,
	}
}

/*
Plan decodes a configuration from the request body and replies with the
register writes of one configuration pass, as [{"reg": r, "val": v}, ...].

Fields left out of the body take their default values. A configuration the
chip cannot run is a bad request.
*/
func (p *Planner) Plan(w http.ResponseWriter, r *http.Request) {
	c := config.Defaults()
	err := json.NewDecoder(r.Body).Decode(&c)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// pacing only matters for a real bus
	c.WriteRate = 0

	d, err := c.Build(&bus.Recorder{}, p.Log)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writes, err := d.Plan()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respond(w, writes)
}

// GetLimits replies with the Limits of the chip.
func GetLimits(w http.ResponseWriter, r *http.Request) {
	respond(w, Limits{
		MinFrequency: si5351.MinFrequency,
		MaxFrequency: si5351.MaxFrequency,
		MinVCO:       si5351.MinVCO,
		MaxVCO:       si5351.MaxVCO,
		Crystals:     []uint32{uint32(si5351.Crystal25MHz), uint32(si5351.Crystal27MHz)},
		Outputs:      si5351.NumOutputs,
		PLLs:         si5351.NumPLLs,
	})
}

func respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SubMuxSanitize turns a configured root into a path chi can mount on: one
// leading slash and no trailing one.
func SubMuxSanitize(root string) string {
	return "/" + strings.Trim(root, "/")
}

// NewRouter mounts the planner's routes under root, plus a list of the
// routes at root/list-of-routes.
func NewRouter(root string, p *Planner) chi.Router {
	rt := p.RT()
	mux := chi.NewRouter()
	rt.Bind(mux)
	mux.Get("/list-of-routes", func(w http.ResponseWriter, r *http.Request) {
		respond(w, rt.Endpoints())
	})

	top := chi.NewRouter()
	top.Mount(SubMuxSanitize(root), mux)
	return top
}
