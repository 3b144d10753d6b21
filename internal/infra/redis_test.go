package infra_test

import (
	"context"
	"testing"

	"ims/internal/infra"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := infra.NewRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	assert.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
}

func TestNewRedis_BadURL(t *testing.T) {
	rdb, err := infra.NewRedis(context.Background(), "not-a-url")
	assert.Error(t, err)
	assert.Nil(t, rdb)
}

func TestNewRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	rdb, err := infra.NewRedis(context.Background(), "redis://"+addr)
	assert.Error(t, err)
	assert.Nil(t, rdb)
}
