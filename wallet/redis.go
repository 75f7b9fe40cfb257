package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/wzwerch/sovrin/domain"
	"github.com/wzwerch/sovrin/domain/models"
)

const (
	keyLinkByNonce  = `link:nonce:`
	keyLinkByTarget = `link:target:`
	keyLinkNonces   = `link:nonces`
	keyClaimDef     = `claimdef:`
)

// RedisStore persists links and claim definitions in redis as JSON values.
// The target index holds the owning link's nonce, and a set of all nonces
// backs enumeration.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(addr string) (*RedisStore, error) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf(`connecting to redis at %s failed - %v`, addr, err)
	}

	return &RedisStore{client: client, ctx: ctx}, nil
}

func (r *RedisStore) SaveLink(l *models.Link) error {
	if l.Nonce == `` {
		return fmt.Errorf(`link has no nonce`)
	}

	byts, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf(`marshalling link failed - %v`, err)
	}

	if err = r.client.Set(r.ctx, keyLinkByNonce+l.Nonce, byts, 0).Err(); err != nil {
		return fmt.Errorf(`storing link failed - %v`, err)
	}

	if err = r.client.SAdd(r.ctx, keyLinkNonces, l.Nonce).Err(); err != nil {
		return fmt.Errorf(`indexing link nonce failed - %v`, err)
	}

	if l.TargetIdentifier != `` {
		if err = r.client.Set(r.ctx, keyLinkByTarget+l.TargetIdentifier, l.Nonce, 0).Err(); err != nil {
			return fmt.Errorf(`indexing link target failed - %v`, err)
		}
	}
	return nil
}

func (r *RedisStore) LinkByNonce(nonce string) (*models.Link, error) {
	byts, err := r.client.Get(r.ctx, keyLinkByNonce+nonce).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf(`fetching link failed - %v`, err)
	}

	var l models.Link
	if err = json.Unmarshal(byts, &l); err != nil {
		return nil, fmt.Errorf(`unmarshalling link failed - %v`, err)
	}
	return &l, nil
}

func (r *RedisStore) LinkByTarget(target string) (*models.Link, error) {
	nonce, err := r.client.Get(r.ctx, keyLinkByTarget+target).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf(`resolving link target failed - %v`, err)
	}

	return r.LinkByNonce(nonce)
}

func (r *RedisStore) Links() (ls []*models.Link, err error) {
	nonces, err := r.client.SMembers(r.ctx, keyLinkNonces).Result()
	if err != nil {
		return nil, fmt.Errorf(`listing link nonces failed - %v`, err)
	}

	sort.Strings(nonces)
	for _, n := range nonces {
		l, err := r.LinkByNonce(n)
		if err != nil {
			return nil, err
		}
		ls = append(ls, l)
	}
	return ls, nil
}

func (r *RedisStore) SaveClaimDef(def models.ClaimDef) error {
	byts, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf(`marshalling claim definition failed - %v`, err)
	}

	if err = r.client.Set(r.ctx, claimDefKey(def.Key), byts, 0).Err(); err != nil {
		return fmt.Errorf(`storing claim definition failed - %v`, err)
	}
	return nil
}

func (r *RedisStore) ClaimDef(key models.ClaimDefKey) (*models.ClaimDef, error) {
	byts, err := r.client.Get(r.ctx, claimDefKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrClaimDefNotFound
	}
	if err != nil {
		return nil, fmt.Errorf(`fetching claim definition failed - %v`, err)
	}

	var def models.ClaimDef
	if err = json.Unmarshal(byts, &def); err != nil {
		return nil, fmt.Errorf(`unmarshalling claim definition failed - %v`, err)
	}
	return &def, nil
}

func claimDefKey(key models.ClaimDefKey) string {
	return fmt.Sprintf(`%s%s:%s:%d`, keyClaimDef, key.Name, key.Version, key.SeqNo)
}
