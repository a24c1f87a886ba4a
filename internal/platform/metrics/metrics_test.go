package metrics

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordCycle(t *testing.T) {
	c := Get()
	before := atomic.LoadInt64(&c.CyclesCompleted)

	c.RecordCycle()
	c.RecordCycle()

	assert.Equal(t, before+2, atomic.LoadInt64(&c.CyclesCompleted))
}

func TestRecordEventPersistCountsErrors(t *testing.T) {
	c := Get()
	before := atomic.LoadInt64(&c.EventPersistErrors)

	c.RecordEventPersist(nil)
	c.RecordEventPersist(assert.AnError)

	assert.Equal(t, before+1, atomic.LoadInt64(&c.EventPersistErrors))
}
