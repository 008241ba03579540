//
// Copyright (c) 2020, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package progress

import (
	"fmt"
	"io"
	"sync"
)

// Bar displays the number of processed items. Increments may come from several goroutines.
type Bar struct {
	lock    sync.Mutex
	out     io.Writer
	label   string
	enabled bool
	current int
	max     int
}

func (b *Bar) display() {
	if b.out == nil {
		return
	}
	label := b.label
	if label == "" {
		label = "Progress"
	}
	fmt.Fprintf(b.out, "\r%s: %d/%d", label, b.current, b.max)
}

// NewBar creates a bar writing to out; a nil writer disables the display
func NewBar(out io.Writer, max int, label string) *Bar {
	b := new(Bar)
	b.out = out
	b.max = max
	b.current = 0
	b.enabled = true
	b.label = label
	b.display()
	return b
}

func (b *Bar) Increment(val int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if !b.enabled {
		return
	}
	b.current += val
	b.display()
}

func EndBar(b *Bar) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.enabled = false
	b.display()
	if b.out != nil {
		fmt.Fprintf(b.out, "\n")
	}
}
