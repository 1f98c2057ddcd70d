package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentGradebookKey returns the cache key for a student's computed gradebook
func (r *CacheKeyStruct) StudentGradebookKey(username string) string {
	return fmt.Sprintf("student:%s:gradebook", username)
}

// StudentGradebookGenerationKey returns the key counting invalidations of a student's gradebook
func (r *CacheKeyStruct) StudentGradebookGenerationKey(username string) string {
	return fmt.Sprintf("student:%s:gradebook:gen", username)
}

// RevokedTokenKey returns the cache key marking a token id as logged out
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

var CacheKey = NewCacheKeyStruct()
