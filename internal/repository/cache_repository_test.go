package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "class-schedule:")
	ctx := context.Background()

	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "lookup:semester:1", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "lookup:semester:1", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "lookup:*"))
	assert.NoError(t, repo.Ping(ctx))
}

func TestCacheRepositoryUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	repo := NewCacheRepository(client, "class-schedule:")
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "lookup:semester:1", &dest)
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Error(t, repo.Ping(ctx))
	assert.Equal(t, "class-schedule:lookup:semester:1", repo.key("lookup:semester:1"))
}
