package sftp

import (
	"context"
	"fmt"
	"net"
	"path"
	"strconv"
	"strings"

	"loan-case-tracker/internal/pkg/config"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

type SFTPClient struct {
	Client        *sftp.Client
	Host          string
	RemoteDir     string
	PublicBaseURL string
	conn          *ssh.Client
}

// NewSFTPClient dials the SSH server and opens an SFTP session that stays
// open until Close.
func NewSFTPClient(ctx context.Context, cfg config.SFTPConfig) (*SFTPClient, error) {
	sshConfig := &ssh.ClientConfig{
		User: cfg.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	conn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create SFTP client: %w", err)
	}

	logger.CtxInfo(ctx, "Connected to SFTP server", zap.String("addr", addr))

	s := NewSFTPClientWithClient(client, cfg.Host, cfg.RemoteDir, cfg.PublicBaseURL)
	s.conn = conn
	return s, nil
}

func NewSFTPClientWithClient(client *sftp.Client, host, remoteDir, publicBaseURL string) *SFTPClient {
	return &SFTPClient{
		Client:        client,
		Host:          host,
		RemoteDir:     remoteDir,
		PublicBaseURL: publicBaseURL,
	}
}

func (s *SFTPClient) Close(ctx context.Context) {
	if s.Client != nil {
		if err := s.Client.Close(); err != nil {
			logger.CtxError(ctx, "Error closing SFTP client", err)
		}
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
	logger.CtxInfo(ctx, log_messages.StorageClientClosed, zap.String("provider", "sftp"))
}

// Upload writes data to RemoteDir/objectName, creating parent directories.
func (s *SFTPClient) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	remotePath := path.Join(s.RemoteDir, objectName)

	if err := s.Client.MkdirAll(path.Dir(remotePath)); err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToSFTP, err, zap.String("path", remotePath))
		return "", fmt.Errorf("failed to create directory on SFTP server: %w", err)
	}

	remoteFile, err := s.Client.Create(remotePath)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToSFTP, err, zap.String("path", remotePath))
		return "", fmt.Errorf("could not create remote file: %w", err)
	}
	if _, err := remoteFile.Write(data); err != nil {
		_ = remoteFile.Close()
		logger.CtxError(ctx, log_messages.ErrorUploadingToSFTP, err, zap.String("path", remotePath))
		return "", fmt.Errorf("could not write remote file: %w", err)
	}
	if err := remoteFile.Close(); err != nil {
		return "", fmt.Errorf("could not close remote file: %w", err)
	}

	logger.CtxInfo(ctx, log_messages.UploadedToSFTP,
		zap.String("path", remotePath),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)),
	)
	return s.publicURL(objectName, remotePath), nil
}

func (s *SFTPClient) publicURL(objectName, remotePath string) string {
	if s.PublicBaseURL != "" {
		return strings.TrimRight(s.PublicBaseURL, "/") + "/" + objectName
	}
	return "sftp://" + s.Host + remotePath
}
