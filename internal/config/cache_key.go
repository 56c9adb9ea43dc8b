package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's active login session.
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// QuizPayloadKey returns the cache key for a published quiz's student-facing
// payload, keyed by its normalized access code.
func (r *CacheKeyStruct) QuizPayloadKey(code string) string {
	return fmt.Sprintf("quiz:code:%s:payload", code)
}

// QuizMonitorChannel returns the Redis PubSub channel name for a quiz's
// live attempt monitor.
func (r *CacheKeyStruct) QuizMonitorChannel(quizID string) string {
	return fmt.Sprintf("quiz:%s:monitor", quizID)
}

var CacheKey = NewCacheKeyStruct()
