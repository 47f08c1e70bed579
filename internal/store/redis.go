package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/redis/go-redis/v9"
)

// Redis stores accounts as binary values and the journal as one list per user.
// Keys: <prefix>:account:<address>, <prefix>:journal:<user>.
type Redis struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures NewRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return NewRedisWithClient(client, opts.Prefix), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "escrow"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) accountKey(key solana.PublicKey) string {
	return r.prefix + ":account:" + key.String()
}

func (r *Redis) journalKey(user solana.PublicKey) string {
	return r.prefix + ":journal:" + user.String()
}

func (r *Redis) Get(ctx context.Context, key solana.PublicKey) (*Account, error) {
	data, err := r.client.Get(ctx, r.accountKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read account %s: %w", key, err)
	}
	return DecodeAccount(data)
}

// Commit writes the batch inside MULTI/EXEC.
func (r *Redis) Commit(ctx context.Context, batch Batch) error {
	type kv struct {
		key   string
		value []byte
	}
	accounts := make([]kv, 0, len(batch.Accounts))
	for key, acct := range batch.Accounts {
		data, err := EncodeAccount(acct)
		if err != nil {
			return err
		}
		accounts = append(accounts, kv{key: r.accountKey(key), value: data})
	}
	entries := make([]kv, 0, len(batch.Entries))
	for _, entry := range batch.Entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal journal entry: %w", err)
		}
		entries = append(entries, kv{key: r.journalKey(entry.User), value: data})
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, a := range accounts {
			pipe.Set(ctx, a.key, a.value, 0)
		}
		for _, e := range entries {
			pipe.RPush(ctx, e.key, e.value)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func (r *Redis) Journal(ctx context.Context, user solana.PublicKey) ([]Entry, error) {
	raw, err := r.client.LRange(ctx, r.journalKey(user), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
