//
// Copyright (c) 2020, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package timer

import "time"

// Handle is a structure gathering all the data necessary to implement timers
type Handle struct {
	start time.Time
	label string
}

// Start creates and start a timer
func Start(label string) *Handle {
	h := new(Handle)
	h.start = time.Now()
	h.label = label
	return h
}

// Elapsed returns the time since the timer started
func (h *Handle) Elapsed() time.Duration {
	return time.Since(h.start)
}

// Stop ends a timer and returns a description of the elapsed time, e.g., "merge: 1.2s"
func (h *Handle) Stop() string {
	return h.label + ": " + h.Elapsed().String()
}
