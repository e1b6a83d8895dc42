package events

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailimport"
)

func TestNewClient(t *testing.T) {
	c, err := NewClient("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.Equal(t, "cache:6380", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)
	assert.Equal(t, "secret", c.Options().Password)

	_, err = NewClient("http://nope")
	assert.Error(t, err)
}

func TestRedisPublisher_Unreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	p := NewRedisPublisher(rdb, "jobtrack.imports")
	err := p.Publish(context.Background(), emailimport.Event{Type: emailimport.EventEmailImported})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish email.imported event")
}
