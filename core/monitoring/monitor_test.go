package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordMonitor struct {
	errs    []error
	tags    []map[string]string
	flushed bool
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}
func (r *recordMonitor) Flush(time.Duration) { r.flushed = true }

func TestCaptureException(t *testing.T) {
	mon := &recordMonitor{}
	Init(mon)
	t.Cleanup(func() { Init(nil) })

	CaptureException(nil, nil)
	CaptureException(errors.New("sink down"), map[string]string{"module": "director"})
	require.Len(t, mon.errs, 1)
	assert.Equal(t, "director", mon.tags[0]["module"])
}

var errCycle = errors.New("cycle")

func TestRecoverReportsAndRepanics(t *testing.T) {
	mon := &recordMonitor{}
	Init(mon)
	t.Cleanup(func() { Init(nil) })

	func() {
		defer func() {
			r := recover()
			assert.Equal(t, errCycle, r)
		}()
		func() {
			defer Recover()
			panic(errCycle)
		}()
	}()
	require.Len(t, mon.errs, 1)
	assert.ErrorIs(t, mon.errs[0], errCycle)
	assert.Equal(t, "panic: cycle", mon.errs[0].Error())
	assert.True(t, mon.flushed)
}

func TestInitNilRestoresNop(t *testing.T) {
	Init(nil)
	assert.Equal(t, NopMonitor{}, get())
}
