// Package history keeps chat transcripts in redis, one list per session.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"travelchat/internal/chat"
)

const keyPrefix = "travelchat:session:"

// Store appends messages to per-session redis lists capped at maxLen
// entries. A maxLen of zero keeps everything.
type Store struct {
	client redis.UniversalClient
	maxLen int64
	logger *zap.Logger
}

func NewStore(client redis.UniversalClient, maxLen int64, log *zap.Logger) *Store {
	return &Store{client: client, maxLen: maxLen, logger: log}
}

// Key returns the redis key holding a session's transcript.
func Key(sessionID string) string {
	return keyPrefix + sessionID
}

// Append adds messages to the end of a session, dropping the oldest entries
// beyond the cap.
func (s *Store) Append(ctx context.Context, sessionID string, msgs ...chat.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode message %s: %w", m.ID, err)
		}
		values = append(values, data)
	}

	key := Key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if s.maxLen > 0 {
			pipe.LTrim(ctx, key, -s.maxLen, -1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append history %s: %w", sessionID, err)
	}
	return nil
}

// Recent returns the last n messages of a session, oldest first. n <= 0
// returns the whole session. Entries that no longer decode are skipped.
func (s *Store) Recent(ctx context.Context, sessionID string, n int64) ([]chat.Message, error) {
	start := int64(0)
	if n > 0 {
		start = -n
	}
	raw, err := s.client.LRange(ctx, Key(sessionID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", sessionID, err)
	}

	msgs := make([]chat.Message, 0, len(raw))
	for _, r := range raw {
		var m chat.Message
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			s.logger.Warn("skipping unreadable history entry", zap.String("session_id", sessionID), zap.Error(err))
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Clear deletes a session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, Key(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear history %s: %w", sessionID, err)
	}
	return nil
}
