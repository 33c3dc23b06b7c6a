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

package planhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DaveKnell/si5351/src/si5351"
	"github.com/google/go-cmp/cmp"
)

const twoOutputs = `{
	"crystal": 27000000,
	"load": "8pF",
	"outputs": [
		{"index": 0, "pll": "A", "frequency": 2000000, "master": true},
		{"index": 1, "pll": "A", "frequency": 2000000, "invert": true}
	]
}`

func serve(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewRouter("clocks/", &Planner{})
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func Test_plan(t *testing.T) {
	resp := serve(t, http.MethodPost, "/clocks/plan", twoOutputs)
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d: %s", resp.Code, resp.Body)
	}
	var writes []si5351.Write
	if err := json.NewDecoder(resp.Body).Decode(&writes); err != nil {
		t.Fatal(err)
	}
	if len(writes) != 49 {
		t.Fatalf("%d writes, want 49", len(writes))
	}
	want := map[int]si5351.Write{
		0:  {Reg: 24, Val: 0x00},
		11: {Reg: 183, Val: 0x92},
		12: {Reg: 26, Val: 0x00},
		13: {Reg: 27, Val: 0x1b},
		37: {Reg: 16, Val: 0x0c},
		47: {Reg: 17, Val: 0x1c},
		48: {Reg: 3, Val: 0xfc},
	}
	for i, w := range want {
		if writes[i] != w {
			t.Errorf("write %d = %v, want %v", i, writes[i], w)
		}
	}
}

func Test_planJSON(t *testing.T) {
	body := `{"outputs": [{"index": 0, "frequency": 10000000, "master": true}]}`
	resp := serve(t, http.MethodPost, "/clocks/plan", body)
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d: %s", resp.Code, resp.Body)
	}
	if !strings.HasPrefix(resp.Body.String(), `[{"reg":24,"val":0},{"reg":25,"val":0},{"reg":3,"val":255}`) {
		t.Errorf("unexpected body %s", resp.Body)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}
}

func Test_planErrors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"not json", `{"outputs": [`, ""},
		{"too fast", `{"outputs": [{"index": 0, "frequency": 200000000, "master": true}]}`, "frequency out of range"},
		{"bad crystal", `{"crystal": 26000000}`, "crystal must be 25 or 27MHz"},
		{"bad load", `{"load": "7pF"}`, "unknown value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(t, http.MethodPost, "/clocks/plan", tt.body)
			if resp.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", resp.Code)
			}
			if !strings.Contains(resp.Body.String(), tt.want) {
				t.Errorf("body %q does not mention %q", resp.Body, tt.want)
			}
		})
	}
	if resp := serve(t, http.MethodGet, "/clocks/plan", ""); resp.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /plan: status %d, want 405", resp.Code)
	}
}

func Test_limits(t *testing.T) {
	resp := serve(t, http.MethodGet, "/clocks/limits", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d", resp.Code)
	}
	var got Limits
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := Limits{
		MinFrequency: 8_000,
		MaxFrequency: 150_000_000,
		MinVCO:       600_000_000,
		MaxVCO:       900_000_000,
		Crystals:     []uint32{25_000_000, 27_000_000},
		Outputs:      8,
		PLLs:         2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("limits mismatch (-want +got):\n%s", diff)
	}
}

func Test_routes(t *testing.T) {
	resp := serve(t, http.MethodGet, "/clocks/list-of-routes", "")
	var got []string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"GET /limits", "POST /plan"}, got); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func Test_subMuxSanitize(t *testing.T) {
	for in, want := range map[string]string{"": "/", "/": "/", "clocks": "/clocks", "/clocks/": "/clocks", "a/b/": "/a/b"} {
		if got := SubMuxSanitize(in); got != want {
			t.Errorf("SubMuxSanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
