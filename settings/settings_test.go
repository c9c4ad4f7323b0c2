package settings

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Deymosik/bonafide-client/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsAPI struct {
	m     sync.Mutex
	calls int
	err   error
	delay time.Duration
}

func (f *fakeSettingsAPI) Settings(context.Context) (*domain.ShopSettings, error) {
	f.m.Lock()
	f.calls++
	err := f.err
	delay := f.delay
	f.m.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	return &domain.ShopSettings{ShopName: "Bonafide"}, nil
}

func (f *fakeSettingsAPI) callCount() int {
	f.m.Lock()
	defer f.m.Unlock()
	return f.calls
}

func (f *fakeSettingsAPI) setErr(err error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.err = err
}

func TestGet_FetchesOnceAndCaches(t *testing.T) {
	api := &fakeSettingsAPI{}
	sut := New(api)

	first := sut.Get(context.Background())
	second := sut.Get(context.Background())

	assert.Equal(t, "Bonafide", first.ShopName)
	assert.Equal(t, "Bonafide", second.ShopName)
	assert.Equal(t, 1, api.callCount())
}

func TestGet_ConcurrentMissesShareOneFetch(t *testing.T) {
	api := &fakeSettingsAPI{delay: 50 * time.Millisecond}
	sut := New(api)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			settings := sut.Get(context.Background())
			assert.Equal(t, "Bonafide", settings.ShopName)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, api.callCount())
}

func TestGet_ErrorReturnsFallbackWithoutCaching(t *testing.T) {
	api := &fakeSettingsAPI{}
	api.setErr(fmt.Errorf("backend down"))
	sut := New(api)

	settings := sut.Get(context.Background())
	assert.Equal(t, "Мой Магазин", settings.ShopName)

	// Recovery on the next call: the failure was not cached.
	api.setErr(nil)
	settings = sut.Get(context.Background())
	assert.Equal(t, "Bonafide", settings.ShopName)
	require.Equal(t, 2, api.callCount())
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	api := &fakeSettingsAPI{}
	sut := New(api)

	sut.Get(context.Background())
	sut.Invalidate()
	sut.Get(context.Background())

	assert.Equal(t, 2, api.callCount())
}
