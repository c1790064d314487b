package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfilerBucket(t *testing.T) {
	assert.Equal(t, "response.get.api_v1_vendors_vendor_sales.200", profilerBucket("GET", "/api/v1/vendors/:vendor/sales", 200))
	assert.Equal(t, "response.get.root.404", profilerBucket("GET", "", 404))
	assert.Equal(t, "response.head.health.200", profilerBucket("HEAD", "/health", 200))
}
