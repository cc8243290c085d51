// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package gpio

import (
	"github.com/warthog618/go-gpiocdev"
)

// AsOutput returns an Option that configures a line as an output with
// its initial value left at the zero default.
func AsOutput() Option {
	return WithDirection(DirectionOutput)
}

// AsInput returns an Option that configures a line as an input.
func AsInput() Option {
	return WithDirection(DirectionInput)
}

// AsOutputValue returns an Option that configures a line as an output
// and sets its initial value in one step.
func AsOutputValue(value int) Option {
	return multiOption{WithDirection(DirectionOutput), WithInitialValue(value)}
}

// multiOption applies a fixed sequence of Options in order, letting
// helpers like AsOutputValue compose two config fields as one Option.
type multiOption []Option

func (m multiOption) apply(c *Config) {
	for _, o := range m {
		o.apply(c)
	}
}

// convertOptions turns this package's Config-level Options into the
// gpiocdev.LineReqOption set the underlying library expects, by
// building a Config and reading off its merged default line settings.
func convertOptions(opts []Option) []gpiocdev.LineReqOption {
	cfg := NewConfig(opts...)
	lc := cfg.DefaultConfig

	out := make([]gpiocdev.LineReqOption, 0, 8)

	if lc.Direction == DirectionOutput {
		out = append(out, gpiocdev.AsOutput(lc.InitialValue))
	} else {
		out = append(out, gpiocdev.AsInput)
	}

	switch lc.Bias {
	case BiasPullUp:
		out = append(out, gpiocdev.WithPullUp)
	case BiasPullDown:
		out = append(out, gpiocdev.WithPullDown)
	case BiasDisabled:
		out = append(out, gpiocdev.WithBiasDisabled)
	}

	switch lc.Edge {
	case EdgeRising:
		out = append(out, gpiocdev.WithRisingEdge)
	case EdgeFalling:
		out = append(out, gpiocdev.WithFallingEdge)
	case EdgeBoth:
		out = append(out, gpiocdev.WithBothEdges)
	}

	switch lc.Drive {
	case DriveOpenDrain:
		out = append(out, gpiocdev.AsOpenDrain)
	case DriveOpenSource:
		out = append(out, gpiocdev.AsOpenSource)
	}

	if lc.ActiveState == ActiveLow {
		out = append(out, gpiocdev.AsActiveLow)
	}

	if lc.Consumer != "" {
		out = append(out, gpiocdev.WithConsumer(lc.Consumer))
	}

	if lc.DebouncePeriod > 0 {
		out = append(out, gpiocdev.WithDebounce(lc.DebouncePeriod))
	}

	return out
}
