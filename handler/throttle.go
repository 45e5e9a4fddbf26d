// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"fmt"

	"github.com/gogama/requisitor/request"
	"golang.org/x/time/rate"
)

// Throttle is a BeforeSend handler that limits the rate at which
// requests, including redirects and retries, are sent. A single
// Throttle may be shared by many sessions.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle returns a Throttle allowing rps requests per second with
// bursts of up to burst requests. A burst below 1 is treated as 1.
func NewThrottle(rps float64, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}

	return &Throttle{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Handle implements the Handler interface.
func (h *Throttle) Handle(evt Event, e *request.Execution) error {
	if evt != BeforeSend {
		return nil
	}

	if err := h.limiter.Wait(e.Request.Context()); err != nil {
		return fmt.Errorf("requisitor/handler: throttle: %w", err)
	}
	return nil
}
