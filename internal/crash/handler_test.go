package crash

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturePassesThroughErrors(t *testing.T) {
	want := errors.New("boom")
	assert.Same(t, want, Capture("plain", func() error { return want }))
	assert.NoError(t, Capture("ok", func() error { return nil }))
}

func TestCaptureConvertsPanic(t *testing.T) {
	err := Capture("guild-42", func() error { panic("nil map") })

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "guild-42", pe.Scope)
	assert.Equal(t, "nil map", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.Contains(t, err.Error(), "panic in guild-42")
}

func TestSafeGoroutineRecovers(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	SafeGoroutine("test", func() {
		defer wg.Done()
		panic("inside goroutine")
	})
	wg.Wait()
}
