package verify

import (
	"context"
	"sync/atomic"

	"github.com/pdevulapally/fakeverifier/src/ai/core"
)

// fakeClient is a canned core.Client that counts invocations.
type fakeClient struct {
	text     string
	json     []byte
	err      error
	calls    int64
	lastOpts core.Options
}

func (f *fakeClient) Complete(ctx context.Context, input string, opts core.Options) (*core.Result, error) {
	atomic.AddInt64(&f.calls, 1)
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &core.Result{Text: f.text}, nil
}

func (f *fakeClient) CompleteJSON(ctx context.Context, input string, schema map[string]interface{}, opts core.Options) ([]byte, error) {
	atomic.AddInt64(&f.calls, 1)
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.json, nil
}

func (f *fakeClient) callCount() int64 {
	return atomic.LoadInt64(&f.calls)
}
