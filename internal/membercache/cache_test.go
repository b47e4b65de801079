package membercache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"society-dashboard/internal/common/database"
	"society-dashboard/internal/common/logger"
	"society-dashboard/internal/models"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = rc.Close() })
	return New(rc, logger.NewTestLogger(t), time.Minute, 30*time.Second), mr
}

func sampleMember() *models.Member {
	return &models.Member{
		ID:               "m1",
		MembershipNumber: "MS-0001",
		Record: map[string]interface{}{
			"id":               "m1",
			"membershipNumber": "MS-0001",
			"personalDetails": map[string]interface{}{
				"nameOfMember": "Asha Devi",
			},
		},
	}
}

func TestMemberRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := cache.GetMember(ctx, "m1")
	assert.False(t, ok)

	cache.SetMember(ctx, sampleMember())

	got, ok := cache.GetMember(ctx, "m1")
	require.True(t, ok)
	assert.Equal(t, "MS-0001", got.MembershipNumber)

	name, ok := got.Category("personalDetails")["nameOfMember"]
	require.True(t, ok)
	assert.Equal(t, "Asha Devi", name)
}

func TestMemberTTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.SetMember(ctx, sampleMember())
	mr.FastForward(2 * time.Minute)

	_, ok := cache.GetMember(ctx, "m1")
	assert.False(t, ok)
}

func TestMemberListRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := cache.GetMembers(ctx)
	assert.False(t, ok)

	cache.SetMembers(ctx, []models.Member{*sampleMember(), {ID: "m2", MembershipNumber: "MS-0002"}})

	members, ok := cache.GetMembers(ctx)
	require.True(t, ok)
	require.Len(t, members, 2)
	assert.Equal(t, "m2", members[1].ID)
}

func TestCorruptEntryIsDropped(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("member:m1", "{not json"))

	_, ok := cache.GetMember(ctx, "m1")
	assert.False(t, ok)
	assert.False(t, mr.Exists("member:m1"))
}

func TestInvalidateDropsRecordAndList(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.SetMember(ctx, sampleMember())
	cache.SetMembers(ctx, []models.Member{*sampleMember()})

	cache.Invalidate(ctx, "m1")
	assert.False(t, mr.Exists("member:m1"))
	assert.False(t, mr.Exists("members:all"))
}

func TestCacheDownIsNonFatal(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	_, ok := cache.GetMember(ctx, "m1")
	assert.False(t, ok)
	cache.SetMember(ctx, sampleMember()) // must not panic
}
