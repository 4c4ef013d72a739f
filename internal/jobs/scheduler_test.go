package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocoder89/campusevents/internal/cache"
)

func TestPurgeDayViewsClearsOnlyEventKeys(t *testing.T) {
	c := cache.New(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "events:list:a", []byte("1"))
	c.Set(ctx, "events:calendar:b", []byte("2"))
	c.Set(ctx, "locations:all", []byte("3"))

	require.NoError(t, PurgeDayViews(c)(ctx))

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(ctx, "locations:all")
	assert.True(t, ok)
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(time.UTC, nil)

	assert.Error(t, s.Add("broken", "every day", func(ctx context.Context) error { return nil }))
	assert.NoError(t, s.Add("midnight", "0 0 * * *", func(ctx context.Context) error { return nil }))
}

func TestSchedulerRunLogsFailures(t *testing.T) {
	s := NewScheduler(time.UTC, nil)

	called := 0
	s.run("failing", func(ctx context.Context) error {
		called++
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return errors.New("boom")
	})

	assert.Equal(t, 1, called)
}
