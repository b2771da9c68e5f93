package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActorDefaultsToSystem(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, SystemActor, Actor(ctx))
	assert.Equal(t, SystemActor, Actor(WithActor(ctx, "")))
	assert.Equal(t, "admin", Actor(WithActor(ctx, "admin")))
}

func TestNowUsesPinnedTime(t *testing.T) {
	pinned := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, pinned, Now(WithTime(context.Background(), pinned)))
	assert.WithinDuration(t, time.Now(), Now(context.Background()), time.Second)
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.Equal(t, "abc", RequestID(WithRequestID(context.Background(), "abc")))
}
