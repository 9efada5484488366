package cooldown

import (
	"context"
	"errors"
	"strconv"
	"time"

	"diamond-topup/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const keyNamespace = "qr-cooldown:"

// RedisStore keeps the issuance claim per UI session so the cooldown
// survives restarts and is shared between replicas. The claim is a single
// SETNX, so concurrent requests from one session cannot both pass.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

func NewRedisStore(client redis.UniversalClient, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// releaseScript deletes the key only while it still holds the caller's claim.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (s *RedisStore) Claim(ctx context.Context, sessionID string, at time.Time, ttl time.Duration) (time.Time, bool, error) {
	key := s.key(sessionID)
	// SETNX と GET の間にキーが失効した場合だけ取り直す
	for range 2 {
		ok, err := s.client.SetNX(ctx, key, at.UnixMilli(), ttl).Result()
		if err != nil {
			return time.Time{}, false, errs.Wrap(err, "failed to claim qr cooldown")
		}
		if ok {
			return at, true, nil
		}

		val, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return time.Time{}, false, errs.Wrap(err, "failed to read qr cooldown")
		}
		ms, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return time.Time{}, false, errs.Wrapf(err, "malformed qr cooldown value %q", val)
		}
		return time.UnixMilli(ms), false, nil
	}
	return time.Time{}, false, errs.Newf("qr cooldown for session %s kept expiring while claimed", sessionID)
}

func (s *RedisStore) Release(ctx context.Context, sessionID string, at time.Time) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.key(sessionID)}, at.UnixMilli()).Err(); err != nil {
		return errs.Wrap(err, "failed to release qr cooldown")
	}
	return nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + keyNamespace + sessionID
}
