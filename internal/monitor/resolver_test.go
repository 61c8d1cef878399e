package monitor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverFirstResolutionWins(t *testing.T) {
	first := fmt.Errorf("first")

	r := newResolver()
	r.resolve(first)
	r.resolve(fmt.Errorf("second"))
	r.resolve(nil)

	assert.Equal(t, first, r.err())
}

func TestResolverSuccessSticks(t *testing.T) {
	r := newResolver()
	r.resolve(nil)
	r.resolve(fmt.Errorf("late failure"))

	assert.NoError(t, r.err())
}

func TestResolverConcurrentResolutions(t *testing.T) {
	r := newResolver()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.resolve(fmt.Errorf("resolution %d", i))
		}(i)
	}
	wg.Wait()

	// Exactly one of the racing resolutions sticks.
	assert.Error(t, r.err())
}
