package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Cache{nil, New(nil, "t:")} {
		var out string
		assert.False(t, c.Get(ctx, "k", &out))
		assert.NoError(t, c.Set(ctx, "k", "v", time.Minute))
		assert.NoError(t, c.Del(ctx, "k"))
		assert.NoError(t, c.Forget(ctx, "k"))
	}
}

func TestRemember_CallsLoaderOnMiss(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}
	calls := 0
	var got item
	err := New(nil, "").Remember(context.Background(), "k", time.Minute, &got, func() (interface{}, error) {
		calls++
		return item{Name: "clover"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "clover", got.Name)
}

func TestRemember_PropagatesLoaderError(t *testing.T) {
	boom := errors.New("boom")
	var got string
	err := New(nil, "").Remember(context.Background(), "k", time.Minute, &got, func() (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
