package redis

import (
	"testing"
	"time"

	"boxoffice/common/db"

	"github.com/alicebob/miniredis/v2"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	redigo "github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*DBClient, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	cfg := db.NewDatabaseConfig()
	cfg.RedisHost = server.Host()
	cfg.RedisPort = server.Port()
	client, err := NewDBClient(cfg, logger.NewMockClient())
	require.NoError(t, err)
	client.lockRetryDelay = time.Millisecond
	t.Cleanup(client.CloseSession)
	return client, server
}

func TestNewDBClient_Unreachable(t *testing.T) {
	cfg := db.NewDatabaseConfig()
	cfg.RedisHost = "127.0.0.1"
	cfg.RedisPort = "1"
	cfg.DialTimeoutMs = 200
	_, err := NewDBClient(cfg, logger.NewMockClient())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
}

func TestDBClient_Do(t *testing.T) {
	client, server := newTestClient(t)

	_, err := client.Do("SET", "k", "v")
	require.NoError(t, err)
	got, err := redigo.String(client.Do("GET", "k"))
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.True(t, server.Exists("k"))
}

func TestDBClient_AcquireRedisLock(t *testing.T) {
	client, _ := newTestClient(t)

	mutex, err := client.AcquireRedisLock(db.MLArtifactLock)
	require.Nil(t, err)
	require.NotNil(t, mutex)

	// the lock is held, so a second attempt gives up after the retries
	_, err = client.AcquireRedisLock(db.MLArtifactLock)
	assert.NotNil(t, err)

	ok, unlockErr := mutex.Unlock()
	assert.NoError(t, unlockErr)
	assert.True(t, ok)

	again, err := client.AcquireRedisLock(db.MLArtifactLock)
	require.Nil(t, err)
	_, _ = again.Unlock()
}
