package redis

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"net"
	"testing"
	"time"

	"loan-case-tracker/internal/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateSelfSignedCert() (certPEM, keyPEM []byte, err error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"Loan Case Tracker Test"}},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	if err != nil {
		return nil, nil, err
	}

	certOut := &bytes.Buffer{}
	if err := pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: derBytes}); err != nil {
		return nil, nil, err
	}

	keyOut := &bytes.Buffer{}
	if err := pem.Encode(keyOut, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privateKey)}); err != nil {
		return nil, nil, err
	}

	return certOut.Bytes(), keyOut.Bytes(), nil
}

func TestBuildTLSConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("default config without cert content", func(t *testing.T) {
		tlsConfig, err := buildTLSConfig(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, tlsConfig.RootCAs)
		assert.Nil(t, tlsConfig.Certificates)
	})

	t.Run("CA certificate only", func(t *testing.T) {
		caCert, _, err := generateSelfSignedCert()
		require.NoError(t, err)

		tlsConfig, err := buildTLSConfig(ctx, config.RedisConfig{CertContent: string(caCert)})
		require.NoError(t, err)
		assert.NotNil(t, tlsConfig.RootCAs)
		assert.Nil(t, tlsConfig.Certificates)
	})

	t.Run("client key pair", func(t *testing.T) {
		cert, key, err := generateSelfSignedCert()
		require.NoError(t, err)

		tlsConfig, err := buildTLSConfig(ctx, config.RedisConfig{CertContent: string(cert) + "\n" + string(key)})
		require.NoError(t, err)
		assert.Len(t, tlsConfig.Certificates, 1)
	})

	t.Run("invalid content", func(t *testing.T) {
		_, err := buildTLSConfig(ctx, config.RedisConfig{CertContent: "this is not a valid cert"})
		assert.ErrorIs(t, err, errNoPEMMaterial)
	})
}

func TestConnectToRedis(t *testing.T) {
	ctx := context.Background()

	t.Run("connects without TLS", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mockNewClient := func(opt *redis.Options) *redis.Client {
			assert.Nil(t, opt.TLSConfig)
			assert.Equal(t, 3*time.Second, opt.DialTimeout)
			return db
		}
		mock.ExpectPing().SetVal("PONG")

		redisClient, err := ConnectToRedis(ctx, config.RedisConfig{Addr: "localhost:6379", ConnectTimeout: 3 * time.Second}, mockNewClient)
		require.NoError(t, err)
		assert.NotNil(t, redisClient)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping failure", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		expectedErr := errors.New("redis is down")
		mock.ExpectPing().SetErr(expectedErr)

		_, err := ConnectToRedis(ctx, config.RedisConfig{Addr: "localhost:6379"}, func(*redis.Options) *redis.Client { return db })
		require.Error(t, err)
		assert.Equal(t, expectedErr, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connects with TLS", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mockNewClient := func(opt *redis.Options) *redis.Client {
			require.NotNil(t, opt.TLSConfig)
			assert.NotNil(t, opt.TLSConfig.RootCAs)
			return db
		}
		mock.ExpectPing().SetVal("PONG")

		caCert, _, err := generateSelfSignedCert()
		require.NoError(t, err)

		redisClient, err := ConnectToRedis(ctx, config.RedisConfig{EnableTLS: true, CertContent: string(caCert)}, mockNewClient)
		require.NoError(t, err)
		assert.NotNil(t, redisClient)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("TLS config build failure", func(t *testing.T) {
		_, err := ConnectToRedis(ctx, config.RedisConfig{EnableTLS: true, CertContent: "invalid cert"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build TLS config")
	})

	t.Run("default constructor against a live server", func(t *testing.T) {
		srv := miniredis.RunT(t)

		redisClient, err := ConnectToRedis(ctx, config.RedisConfig{Addr: srv.Addr()}, nil)
		require.NoError(t, err)
		assert.NoError(t, Disconnect(redisClient.Client))
	})
}

func TestDisconnect(t *testing.T) {
	db, _ := redismock.NewClientMock()
	assert.NoError(t, Disconnect(db))
	assert.NoError(t, Disconnect(nil))
}
