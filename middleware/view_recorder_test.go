package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsContentPath(t *testing.T) {
	// post detail and public profile reads count
	assert.True(t, isContentPath("/api/v1/posts/5"))
	assert.True(t, isContentPath("/api/v1/users/7"))

	// feeds, sub-resources and status reads never count
	assert.False(t, isContentPath("/api/v1/posts"))
	assert.False(t, isContentPath("/api/v1/posts/5/comments"))
	assert.False(t, isContentPath("/api/v1/posts/5/like"))
	assert.False(t, isContentPath("/api/v1/users/7/posts"))
	assert.False(t, isContentPath("/api/v1/users/7/followers"))
	assert.False(t, isContentPath("/api/v1/users/7/streak"))
	assert.False(t, isContentPath("/api/v1/users/7/follow"))

	// non-content surfaces
	assert.False(t, isContentPath("/health"))
	assert.False(t, isContentPath("/api/v1/stats"))
	assert.False(t, isContentPath("/api/v1/categories"))
}
