package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msojocs/pigment/internal/pool"
)

func TestSyncAsyncEquivalence(t *testing.T) {
	p := pool.New(2)
	defer p.Close()

	requests := []BatchRequest{
		{
			OutputKind: OutputKindBincode,
			Sources: map[string][]byte{
				"a.css": []byte(`@import "b.css"; div { color: red }`),
				"b.css": []byte("span { margin: 0 }"),
			},
		},
		{
			OutputKind:    OutputKindBincode,
			TagNamePrefix: "wx-",
			Sources: map[string][]byte{
				"one.css": []byte("em { a: b !important }"),
				"two.css": []byte("div { color red }"),
			},
		},
		{
			OutputKind: "json",
			Sources:    map[string][]byte{"a.css": []byte("div { a: b }")},
		},
		{
			OutputKind: OutputKindBincode,
			Sources:    map[string][]byte{},
		},
	}

	for _, req := range requests {
		blocking, err := Compile(context.Background(), req)
		require.NoError(t, err)

		offloaded, err := CompileAsync(p, req).Wait(context.Background())
		require.NoError(t, err)

		// Same artifacts, same diagnostics order, same import index.
		assert.Equal(t, blocking, offloaded)
	}
}

func TestSingleSyncAsyncEquivalence(t *testing.T) {
	p := pool.New(1)
	defer p.Close()

	req := SingleRequest{
		FileName:   "a.css",
		Content:    []byte("div { color red }\nspan { x: y }"),
		OutputKind: OutputKindBincode,
		Prefix:     "ns-",
	}

	blocking, err := CompileSingle(context.Background(), req)
	require.NoError(t, err)

	offloaded, err := CompileSingleAsync(p, req).Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, blocking, offloaded)
}

func TestAsyncSubmitAfterClose(t *testing.T) {
	p := pool.New(1)
	p.Close()

	f := CompileAsync(p, BatchRequest{
		OutputKind: OutputKindBincode,
		Sources:    map[string][]byte{"a.css": []byte("div { a: b }")},
	})
	_, err := f.Wait(context.Background())

	assert.ErrorIs(t, err, pool.ErrPoolClosed)
}

func TestAsyncEngineFaultPropagates(t *testing.T) {
	orig := newEngine
	newEngine = func() engine { return faultingEngine{} }
	defer func() { newEngine = orig }()

	p := pool.New(1)
	defer p.Close()

	f := CompileAsync(p, BatchRequest{
		OutputKind: OutputKindBincode,
		Sources:    map[string][]byte{"a.css": []byte("div { a: b }")},
	})
	result, err := f.Wait(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine fault")
	assert.Nil(t, result)
}
