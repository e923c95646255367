package handlers

import (
	"testing"

	"rental-portal/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestStatsCacheEnabled(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	cases := []struct {
		name  string
		redis *redis.Client
		ttl   int
		want  bool
	}{
		{"no redis", nil, 30, false},
		{"zero ttl would cache forever", rdb, 0, false},
		{"negative ttl", rdb, -5, false},
		{"enabled", rdb, 30, true},
	}
	for _, tc := range cases {
		h := &AdminHandler{redis: tc.redis, statsCfg: config.StatsConfig{CacheTTLSeconds: tc.ttl}}
		assert.Equal(t, tc.want, h.statsCacheEnabled(), tc.name)
	}
}
