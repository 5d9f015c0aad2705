package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"loan-case-tracker/internal/pkg/config"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var errNoPEMMaterial = errors.New("failed to parse PEM content as a valid CA certificate or client key pair")

type RedisClientConstructor func(opt *redis.Options) *redis.Client

// RedisClient backs the repair queue and the suggestion cache.
type RedisClient struct {
	Client *redis.Client
}

// ConnectToRedis builds a client and pings it. A nil constructor means redis.NewClient.
func ConnectToRedis(ctx context.Context, cfg config.RedisConfig, newClient RedisClientConstructor) (*RedisClient, error) {
	logger.CtxInfo(ctx, log_messages.RedisConnecting,
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.Bool("tls", cfg.EnableTLS),
	)

	options, err := clientOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if newClient == nil {
		newClient = redis.NewClient
	}
	client := newClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		logger.CtxError(ctx, log_messages.RedisPingFailed, err, zap.String("addr", cfg.Addr))
		return nil, err
	}

	logger.CtxInfo(ctx, log_messages.RedisConnected, zap.String("addr", cfg.Addr))
	return &RedisClient{Client: client}, nil
}

func clientOptions(ctx context.Context, cfg config.RedisConfig) (*redis.Options, error) {
	options := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.ConnectTimeout > 0 {
		options.DialTimeout = cfg.ConnectTimeout
	}
	if !cfg.EnableTLS {
		return options, nil
	}

	tlsConfig, err := buildTLSConfig(ctx, cfg)
	if err != nil {
		logger.CtxError(ctx, log_messages.RedisTLSRejected, err)
		return nil, fmt.Errorf("failed to build TLS config: %w", err)
	}
	options.TLSConfig = tlsConfig
	return options, nil
}

// buildTLSConfig reads cfg.CertContent as a client key pair, CA
// certificates, or both. Empty content means system roots.
func buildTLSConfig(ctx context.Context, cfg config.RedisConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CertContent == "" {
		return tlsConfig, nil
	}

	pem := []byte(cfg.CertContent)
	if cert, err := tls.X509KeyPair(pem, pem); err == nil {
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	if pool := x509.NewCertPool(); pool.AppendCertsFromPEM(pem) {
		tlsConfig.RootCAs = pool
	}
	if tlsConfig.Certificates == nil && tlsConfig.RootCAs == nil {
		return nil, errNoPEMMaterial
	}

	logger.CtxDebug(ctx, "Redis TLS material loaded",
		zap.Bool("client_certificate", tlsConfig.Certificates != nil),
		zap.Bool("root_cas", tlsConfig.RootCAs != nil),
	)
	return tlsConfig, nil
}

func Disconnect(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
