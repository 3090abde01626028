package decorate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracer returns an add-on that records pre/post markers in log.
func tracer(log *[]string, label string) AddOn[int, int] {
	return func(inner Behavior[int, int]) Behavior[int, int] {
		return func(ctx context.Context, req int) (int, error) {
			*log = append(*log, label+"-pre")
			res, err := inner(ctx, req)
			*log = append(*log, label+"-post")
			return res, err
		}
	}
}

func base(log *[]string) Behavior[int, int] {
	return func(ctx context.Context, req int) (int, error) {
		*log = append(*log, "base")
		return req * 2, nil
	}
}

func TestWrap_Ordering(t *testing.T) {
	var log []string
	b := Wrap(base(&log), tracer(&log, "A"), tracer(&log, "B"))

	res, err := b(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 6, res)
	assert.Equal(t, []string{"B-pre", "A-pre", "base", "A-post", "B-post"}, log)
}

func TestWrap_NotCommutative(t *testing.T) {
	var log []string
	b := Wrap(base(&log), tracer(&log, "B"), tracer(&log, "A"))

	_, err := b(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-pre", "B-pre", "base", "B-post", "A-post"}, log)
}

func TestWrap_Associative(t *testing.T) {
	var log1, log2 []string
	nested := Wrap(Wrap(base(&log1), tracer(&log1, "A")), tracer(&log1, "B"))
	flat := Wrap(base(&log2), tracer(&log2, "A"), tracer(&log2, "B"))

	_, err := nested(context.Background(), 1)
	require.NoError(t, err)
	_, err = flat(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, log1, log2)
}

func TestWrap_NoAddOns(t *testing.T) {
	var log []string
	b := Wrap(base(&log))
	res, err := b(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 10, res)
	assert.Equal(t, []string{"base"}, log)
}

func TestRecovery(t *testing.T) {
	b := Wrap(func(ctx context.Context, req int) (int, error) {
		panic("kaboom")
	}, Recovery[int, int]())

	res, err := b(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Zero(t, res)
}

func TestMemoize_ShortCircuits(t *testing.T) {
	calls := 0
	b := Wrap(func(ctx context.Context, req int) (int, error) {
		calls++
		return req * req, nil
	}, Memoize[int, int]())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := b(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, 16, res)
	}
	assert.Equal(t, 1, calls, "inner behavior must run once per distinct request")

	res, err := b(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 25, res)
	assert.Equal(t, 2, calls)
}

func TestMemoize_DoesNotCacheErrors(t *testing.T) {
	calls := 0
	b := Wrap(func(ctx context.Context, req int) (int, error) {
		calls++
		if calls == 1 {
			return 0, assert.AnError
		}
		return req, nil
	}, Memoize[int, int]())

	_, err := b(context.Background(), 1)
	require.Error(t, err)
	res, err := b(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res)
	assert.Equal(t, 2, calls)
}
