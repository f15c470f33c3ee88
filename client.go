package dashclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/edupath/dashclient/client/api"
	"github.com/edupath/dashclient/client/auth/session"
	"github.com/edupath/dashclient/client/auth/store"
	"github.com/edupath/dashclient/client/auth/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSecret = "secret"
	StoreRedis  = "redis"

	defaultRefreshPath = "token/refresh/"
	defaultTimeout     = 30
)

// ClientOptions
//
// defines options for configuring a dashboard client.
type ClientOptions struct {
	URL                   string       `yaml:"url" json:"url" short:"u" long:"url" description:"dashboard API base URL"`
	RefreshPath           string       `yaml:"refreshPath,omitempty" json:"refreshPath,omitempty" long:"refresh-path" description:"token refresh path relative to URL"`
	TimeoutSeconds        int          `yaml:"timeoutSeconds,omitempty" json:"timeoutSeconds,omitempty" long:"timeout" description:"per request timeout in seconds"`
	RefreshTimeoutSeconds int          `yaml:"refreshTimeoutSeconds,omitempty" json:"refreshTimeoutSeconds,omitempty" long:"refresh-timeout" description:"token refresh timeout in seconds"`
	DisableCoalescing     bool         `yaml:"disableCoalescing,omitempty" json:"disableCoalescing,omitempty" long:"no-coalesce" description:"refresh once per rejected request instead of once per burst"`
	Store                 StoreOptions `yaml:"store,omitempty" json:"store,omitempty"`

	// Persister, if set, replaces the store built from Store.
	Persister session.Persister `yaml:"-" json:"-" no-flag:"true"`
	// Logger defaults to slog.Default().
	Logger *slog.Logger `yaml:"-" json:"-" no-flag:"true"`
	// Registerer, if set, receives the executor counters.
	Registerer prometheus.Registerer `yaml:"-" json:"-" no-flag:"true"`
}

// StoreOptions defines where remembered credentials are kept.
type StoreOptions struct {
	Kind          string `yaml:"kind,omitempty" json:"kind,omitempty" short:"s" long:"store" description:"credential store" choice:"memory" choice:"file" choice:"secret" choice:"redis"`
	URL           string `yaml:"url,omitempty" json:"url,omitempty" long:"store-url" description:"credential file URL for file and secret stores"`
	EncryptionKey string `yaml:"encryptionKey,omitempty" json:"encryptionKey,omitempty" short:"k" long:"key" description:"secret store encryption key"`
	RedisAddr     string `yaml:"redisAddr,omitempty" json:"redisAddr,omitempty" long:"redis-addr" description:"redis address for the redis store"`
	RedisKey      string `yaml:"redisKey,omitempty" json:"redisKey,omitempty" long:"redis-key" description:"redis key for the redis store"`
	TTLSeconds    int    `yaml:"ttlSeconds,omitempty" json:"ttlSeconds,omitempty" long:"store-ttl" description:"redis entry ttl in seconds"`
}

func (c *ClientOptions) Init() {
	if c.RefreshPath == "" {
		c.RefreshPath = defaultRefreshPath
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeout
	}
	if c.RefreshTimeoutSeconds <= 0 {
		c.RefreshTimeoutSeconds = c.TimeoutSeconds
	}
	if c.Store.Kind == "" {
		c.Store.Kind = StoreMemory
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client is a dashboard API client with its session and executor.
type Client struct {
	*api.Client
	Executor *transport.Executor
	Metrics  *transport.Metrics
	closers  []func() error
}

// Close releases store connections.
func (c *Client) Close() error {
	var errs []error
	for _, closer := range c.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewClient creates a client, restoring remembered credentials from the configured store.
func NewClient(ctx context.Context, options *ClientOptions) (*Client, error) {
	options.Init()
	if options.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	ret := &Client{}
	persister, err := options.persister(ret)
	if err != nil {
		return nil, err
	}
	sess := session.New(session.WithPersister(persister), session.WithLogger(options.Logger))
	if restored, err := sess.Restore(ctx); err != nil {
		options.Logger.Warn("failed to restore session", "store", options.Store.Kind, "error", err)
	} else if restored {
		options.Logger.Debug("session restored", "store", options.Store.Kind, "userId", sess.UserID())
	}

	timeout := time.Duration(options.TimeoutSeconds) * time.Second
	refreshURL := strings.TrimRight(options.URL, "/") + "/" + strings.TrimLeft(options.RefreshPath, "/")
	refresher := transport.NewHTTPRefresher(refreshURL, &http.Client{Timeout: time.Duration(options.RefreshTimeoutSeconds) * time.Second})

	executorOptions := []transport.Option{
		transport.WithSession(sess),
		transport.WithRefresher(refresher),
		transport.WithCoalescedRefresh(!options.DisableCoalescing),
		transport.WithRequestTimeout(timeout),
		transport.WithLogger(options.Logger),
	}
	if options.Registerer != nil {
		if ret.Metrics, err = transport.NewMetrics(options.Registerer); err != nil {
			_ = ret.Close()
			return nil, err
		}
		executorOptions = append(executorOptions, transport.WithMetrics(ret.Metrics))
	}
	if ret.Executor, err = transport.New(executorOptions...); err != nil {
		_ = ret.Close()
		return nil, err
	}
	ret.Client = api.New(options.URL, ret.Executor,
		api.WithHTTPClient(&http.Client{Timeout: timeout}),
		api.WithLogger(options.Logger))
	return ret, nil
}

// persister builds the credential store selected by Store.Kind.
func (c *ClientOptions) persister(client *Client) (session.Persister, error) {
	if c.Persister != nil {
		return c.Persister, nil
	}
	switch c.Store.Kind {
	case StoreMemory:
		return store.NewMemoryStore(), nil
	case StoreFile:
		if c.Store.URL == "" {
			return nil, fmt.Errorf("store url is required for %v store", c.Store.Kind)
		}
		return store.NewFileStore(c.Store.URL), nil
	case StoreSecret:
		if c.Store.URL == "" {
			return nil, fmt.Errorf("store url is required for %v store", c.Store.Kind)
		}
		return store.NewSecretStore(c.Store.URL, c.Store.EncryptionKey), nil
	case StoreRedis:
		if c.Store.RedisAddr == "" {
			return nil, fmt.Errorf("redis address is required for %v store", c.Store.Kind)
		}
		redisClient := redis.NewClient(&redis.Options{Addr: c.Store.RedisAddr})
		client.closers = append(client.closers, redisClient.Close)
		return store.NewRedisStore(redisClient, c.Store.RedisKey, time.Duration(c.Store.TTLSeconds)*time.Second), nil
	default:
		return nil, fmt.Errorf("unsupported store: %v", c.Store.Kind)
	}
}
