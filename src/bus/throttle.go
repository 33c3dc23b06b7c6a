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

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled passes writes on to W no faster than L allows. Some USB and
// bit-banged I2C bridges drop transactions when they are hit back to back.
type Throttled struct {
	W   Writer
	L   *rate.Limiter
	Ctx context.Context // defaults to context.Background
}

// Throttle returns a writer that sends at most perSecond writes per second to w.
func Throttle(w Writer, perSecond float64) *Throttled {
	return &Throttled{W: w, L: rate.NewLimiter(rate.Limit(perSecond), 1)}
}

func (t *Throttled) WriteRegister(dev any, reg, val uint8) error {
	ctx := t.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := t.L.Wait(ctx); err != nil {
		return err
	}
	return t.W.WriteRegister(dev, reg, val)
}
