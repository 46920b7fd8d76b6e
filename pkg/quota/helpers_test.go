package quota

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
)

// fakeDeriver is a Deriver whose period token is set by the test.
type fakeDeriver struct {
	mu         sync.Mutex
	period     string
	nextPeriod string

	nextPeriodCalls atomic.Int64
}

func newFakeDeriver(period, nextPeriod string) *fakeDeriver {
	return &fakeDeriver{period: period, nextPeriod: nextPeriod}
}

func (f *fakeDeriver) Consumer(r *http.Request) string {
	return r.URL.Path
}

func (f *fakeDeriver) Period() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.period
}

func (f *fakeDeriver) NextPeriod() string {
	f.nextPeriodCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nextPeriod
}

func (f *fakeDeriver) setPeriod(p string) {
	f.mu.Lock()
	f.period = p
	f.mu.Unlock()
}

func (f *fakeDeriver) setNextPeriod(p string) {
	f.mu.Lock()
	f.nextPeriod = p
	f.mu.Unlock()
}

func request(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}
