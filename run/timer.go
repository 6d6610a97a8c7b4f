package main

import (
	"fmt"
	"time"
)

// timer reports elapsed time between laps and since start.
type timer struct{ start, lap time.Time }

func newTimer() *timer {
	t := time.Now()
	return &timer{t, t}
}

func (t *timer) Lap(msg string) {
	fmt.Printf("%s  %v\n", msg, time.Since(t.lap).Round(time.Millisecond))
	t.lap = time.Now()
}

func (t *timer) Print(msg string) {
	fmt.Printf("%s  (total %v)\n", msg, time.Since(t.start).Round(time.Millisecond))
}
