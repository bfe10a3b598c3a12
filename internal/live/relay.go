package live

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"balalaika/internal/domain"
	applog "balalaika/internal/log"
)

const relayChannel = "balalaika:changes"

// RedisRelay tells other instances that a collection changed so they can
// re-publish their own snapshot. Messages from this instance are ignored.
type RedisRelay struct {
	client *redis.Client
	origin string
}

func NewRedisRelay(url string) (*RedisRelay, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisRelay{client: redis.NewClient(opt), origin: uuid.NewString()}, nil
}

// Notify announces a change. Failures are logged; local subscribers already
// have the new snapshot.
func (r *RedisRelay) Notify(ctx context.Context, c domain.Collection) {
	if err := r.client.Publish(ctx, relayChannel, r.origin+"|"+string(c)).Err(); err != nil {
		applog.Logger().WithError(err).WithField("collection", c).Warn("relay.publish.fail")
	}
}

// Listen calls refresh for every change announced by another instance until ctx ends.
func (r *RedisRelay) Listen(ctx context.Context, refresh func(domain.Collection)) error {
	ps := r.client.Subscribe(ctx, relayChannel)
	defer ps.Close()
	if _, err := ps.Receive(ctx); err != nil {
		return err
	}
	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			origin, coll, found := strings.Cut(msg.Payload, "|")
			if !found || origin == r.origin {
				continue
			}
			refresh(domain.Collection(coll))
		}
	}
}

func (r *RedisRelay) Close() error { return r.client.Close() }
