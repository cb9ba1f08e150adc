package transport

import (
	"context"
)

// Async decorates another backend so each Get runs detached on its own
// goroutine while the calling goroutine suspends on the result. The
// caller resumes the moment ctx is done, even if the inner backend is
// still mid-request; the detached request then finishes (or fails) on
// its own and its result is dropped. Useful inside cooperative
// schedulers where a stuck Get must not hold up cancellation.
type Async struct {
	inner Backend
}

// NewAsync creates an asynchronous backend around inner.
func NewAsync(inner Backend) *Async {
	return &Async{inner: inner}
}

// Name implements Backend.
func (a *Async) Name() string { return "async(" + a.inner.Name() + ")" }

// NewSession implements Backend; sessions come from the inner backend.
func (a *Async) NewSession() Session {
	return a.inner.NewSession()
}

// Get implements Backend.
func (a *Async) Get(ctx context.Context, url string, headers map[string]string, s Session) (*Response, error) {
	type result struct {
		resp *Response
		err  error
	}

	// Buffered so the detached goroutine never leaks when the caller
	// has already resumed on ctx.Done.
	results := make(chan result, 1)
	go func() {
		resp, err := a.inner.Get(ctx, url, headers, s)
		results <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-results:
		return r.resp, r.err
	}
}
