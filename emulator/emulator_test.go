package emulator

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/duet/cpu"
)

func doParse(t *testing.T, source string) (prog *cpu.Program) {
	assert := assert.New(t)

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(source))
	assert.NoError(err)

	return
}

func TestDuet(t *testing.T) {
	assert := assert.New(t)

	duet := NewDuet(&cpu.Program{})

	assert.False(duet.Verbose)
	assert.Equal(STATE_RUNNING, duet.State())
	assert.NotNil(duet.Core[0])
	assert.NotNil(duet.Core[1])
}

func TestDuet_Exchange(t *testing.T) {
	assert := assert.New(t)

	prog := doParse(t, strings.Join([]string{
		"snd 1",
		"snd 2",
		"snd p",
		"rcv a",
		"rcv b",
		"rcv c",
		"rcv d",
	}, "\n"))

	duet := NewDuet(prog)
	err := duet.Run()
	assert.NoError(err)

	assert.Equal(STATE_DEADLOCKED, duet.State())
	assert.Equal(3, duet.Sent[0])
	assert.Equal(3, duet.Sent[1])

	// Each core received the peer's identity into 'c'.
	assert.Equal(int64(1), duet.Core[0].Regs.Get('a'))
	assert.Equal(int64(2), duet.Core[0].Regs.Get('b'))
	assert.Equal(int64(1), duet.Core[0].Regs.Get('c'))
	assert.Equal(int64(0), duet.Core[1].Regs.Get('c'))

	// Nothing left undelivered.
	assert.Empty(slices.Collect(duet.Pending()))
}

func TestDuet_Deadlock(t *testing.T) {
	assert := assert.New(t)

	prog := doParse(t, "rcv a")

	duet := NewDuet(prog)
	err := duet.Run()
	assert.NoError(err)

	assert.Equal(STATE_DEADLOCKED, duet.State())
	assert.Equal(1, duet.Ticks)
	assert.Equal(0, duet.Sent[0])
	assert.Equal(0, duet.Sent[1])
}

func TestDuet_Empty(t *testing.T) {
	assert := assert.New(t)

	duet := NewDuet(&cpu.Program{})
	err := duet.Run()
	assert.NoError(err)

	assert.Equal(STATE_HALTED, duet.State())
	assert.Equal(1, duet.Ticks)
	assert.Equal(0, duet.Sent[0])
	assert.Equal(0, duet.Sent[1])
}

func TestDuet_Fifo(t *testing.T) {
	assert := assert.New(t)

	// Core 0 sends a sequence; core 1 only receives.
	prog := doParse(t, strings.Join([]string{
		"jgz p 5",
		"snd 10",
		"snd 20",
		"snd 30",
		"jgz 1 4",
		"rcv a",
		"rcv b",
		"rcv c",
	}, "\n"))

	duet := NewDuet(prog)
	err := duet.Run()
	assert.NoError(err)

	assert.Equal(STATE_HALTED, duet.State())
	assert.Equal(3, duet.Sent[0])
	assert.Equal(0, duet.Sent[1])

	// Received values appear in exactly the order sent.
	assert.Equal(int64(10), duet.Core[1].Regs.Get('a'))
	assert.Equal(int64(20), duet.Core[1].Regs.Get('b'))
	assert.Equal(int64(30), duet.Core[1].Regs.Get('c'))
}

func TestDuet_Pending(t *testing.T) {
	assert := assert.New(t)

	prog := doParse(t, strings.Join([]string{
		"snd 1",
		"snd 2",
		"rcv a",
	}, "\n"))

	duet := NewDuet(prog)
	err := duet.Run()
	assert.NoError(err)

	assert.Equal(STATE_HALTED, duet.State())

	// Both cores consumed only the first of two sent values.
	assert.Equal(int64(1), duet.Core[0].Regs.Get('a'))
	assert.Equal(int64(1), duet.Core[1].Regs.Get('a'))
	assert.Equal([]int64{2, 2}, slices.Collect(duet.Pending()))
}

func TestDuet_Determinism(t *testing.T) {
	assert := assert.New(t)

	prog := doParse(t, strings.Join([]string{
		"snd 1",
		"snd 2",
		"snd p",
		"rcv a",
		"rcv b",
		"rcv c",
		"rcv d",
	}, "\n"))

	duet := NewDuet(prog)
	err := duet.Run()
	assert.NoError(err)

	state := duet.State()
	sent := duet.Sent
	ticks := duet.Ticks

	err = duet.Run()
	assert.NoError(err)

	assert.Equal(state, duet.State())
	assert.Equal(sent, duet.Sent)
	assert.Equal(ticks, duet.Ticks)
}

func TestDuet_Fault(t *testing.T) {
	assert := assert.New(t)

	prog := doParse(t, strings.Join([]string{
		"set a 1",
		"mod a 0",
	}, "\n"))

	duet := NewDuet(prog)
	err := duet.Run()
	assert.ErrorIs(err, cpu.ErrModuloZero)

	// Core 0 steps first within a tick, so it faults first.
	var runtime *ErrRuntime
	assert.True(errors.As(err, &runtime))
	assert.Equal(0, runtime.Core)
	assert.Equal(2, runtime.LineNo)
}

func TestDuet_Tick_Done(t *testing.T) {
	assert := assert.New(t)

	duet := NewDuet(&cpu.Program{})

	done, err := duet.Tick()
	assert.NoError(err)
	assert.True(done)

	// Terminal states are sticky.
	done, err = duet.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(1, duet.Ticks)
}

func TestDuet_Reset(t *testing.T) {
	assert := assert.New(t)

	prog := doParse(t, "snd 1\nrcv a")

	duet := NewDuet(prog)
	err := duet.Run()
	assert.NoError(err)
	assert.NotEqual(STATE_RUNNING, duet.State())

	duet.Reset()
	assert.Equal(STATE_RUNNING, duet.State())
	assert.Equal(0, duet.Ticks)
	assert.Equal(0, duet.Sent[0])
	assert.Empty(slices.Collect(duet.Pending()))
	assert.Equal(int64(1), duet.Core[1].Regs.Get(cpu.PID_REGISTER))
}
