package emulator

import (
	"errors"

	"github.com/ezrec/duet/translate"
)

var f = translate.From

var (
	// ErrNoRecovery indicates a recover-mode run that halted without
	// ever recovering a frequency.
	ErrNoRecovery = errors.New(f("no frequency recovered"))
)

// ErrRuntime indicates the core and source location of a runtime error.
type ErrRuntime struct {
	Core   int
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("core %d line %d %v", err.Core, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
