package flags

import (
	"strconv"

	"github.com/teranos/avrflags/errors"
)

// customizeHint is attached to every board error. Users hit it when a board
// value was blanked in a config file or environment variable.
const customizeHint = "Customize your flags! Set board.variant, board.cpu and board.clock_mhz in avrflags.toml"

// Board identifies the target hardware.
type Board struct {
	// Variant selects the pin/pad layout header directory (e.g. "eightanaloginputs").
	Variant string
	// CPU is the microcontroller part number (e.g. "ATmega328P").
	CPU string
	// ClockMHz is the CPU clock in whole megahertz.
	ClockMHz int
}

// Validate reports a configuration error if any board value is unset.
func (b Board) Validate() error {
	if b.Variant == "" {
		return errors.WithHint(errors.NewConfigError("board.variant is empty"), customizeHint)
	}
	if b.CPU == "" {
		return errors.WithHint(errors.NewConfigError("board.cpu is empty"), customizeHint)
	}
	if b.ClockMHz == 0 {
		return errors.WithHint(errors.NewConfigError("board.clock_mhz is zero"), customizeHint)
	}
	if b.ClockMHz < 0 {
		return errors.WithHint(errors.NewConfigError("board.clock_mhz must be positive, got %d", b.ClockMHz), customizeHint)
	}
	return nil
}

// FCPU is the F_CPU macro value. The megahertz count gets a literal "000000"
// suffix; it is not multiplied.
func (b Board) FCPU() string {
	return strconv.Itoa(b.ClockMHz) + "000000"
}
