package redis_batch

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type ConnConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	// TimeoutSec bounds dialing and every command round trip.
	TimeoutSec int `json:"timeout_sec"`
}

func (c *ConnConfig) WithDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.TimeoutSec <= 0 {
		c.TimeoutSec = 5
	}
}

func (c ConnConfig) timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

func (c ConnConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c ConnConfig) options() *redis.Options {
	c.WithDefaults()
	return &redis.Options{
		Addr:            c.addr(),
		Password:        c.Password,
		DB:              c.DB,
		DialTimeout:     c.timeout(),
		ReadTimeout:     c.timeout(),
		WriteTimeout:    c.timeout(),
		Protocol:        2,
		DisableIdentity: true,
	}
}

// openRedis returns a client that has answered PING.
func openRedis(ctx context.Context, cfg ConnConfig) (*redis.Client, error) {
	rdb := redis.NewClient(cfg.options())
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
