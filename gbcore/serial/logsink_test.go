package serial

import (
	"testing"

	"github.com/ptarmigan-labs/gbcore/gbcore/addr"
	"github.com/stretchr/testify/assert"
)

func TestImmediateTransferCompletesAndRaisesIRQ(t *testing.T) {
	irqCount := 0
	s := NewLogSink(func() { irqCount++ })

	s.Write(addr.SB, 'A')
	s.Write(addr.SC, 0x81) // start + internal clock

	assert.Equal(t, 1, irqCount)
	assert.Equal(t, byte(0xFF), s.Read(addr.SB))
	assert.False(t, bitSet(s.Read(addr.SC), 7))
}

func TestExternalClockDoesNotStartTransfer(t *testing.T) {
	irqCount := 0
	s := NewLogSink(func() { irqCount++ })

	s.Write(addr.SB, 'A')
	s.Write(addr.SC, 0x80) // start bit set, but external clock

	assert.Equal(t, 0, irqCount)
	assert.Equal(t, byte('A'), s.Read(addr.SB))
}

func TestFixedTimingCompletesAfter4096Cycles(t *testing.T) {
	irqCount := 0
	s := NewLogSink(func() { irqCount++ }, WithFixedTiming())

	s.Write(addr.SB, 'A')
	s.Write(addr.SC, 0x81)

	assert.Equal(t, 0, irqCount, "fixed-timing transfer does not complete synchronously")

	s.Tick(4095)
	assert.Equal(t, 0, irqCount)

	s.Tick(1)
	assert.Equal(t, 1, irqCount)
	assert.Equal(t, byte(0xFF), s.Read(addr.SB))
}

func TestResetClearsPendingTransfer(t *testing.T) {
	s := NewLogSink(func() {}, WithFixedTiming())
	s.Write(addr.SB, 'A')
	s.Write(addr.SC, 0x81)

	s.Reset()

	assert.Equal(t, byte(0x00), s.Read(addr.SB))
	assert.Equal(t, byte(0x00), s.Read(addr.SC))
	assert.False(t, s.transferActive)
}

func bitSet(b byte, index uint8) bool {
	return b&(1<<index) != 0
}
