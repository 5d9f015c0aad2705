package sftp

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPipeClient serves the local filesystem over an in-process SFTP session.
func newPipeClient(t *testing.T) *sftp.Client {
	t.Helper()

	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()

	server, err := sftp.NewServer(struct {
		io.Reader
		io.WriteCloser
	}{serverReader, serverWriter})
	require.NoError(t, err)
	go func() { _ = server.Serve() }()

	client, err := sftp.NewClientPipe(clientReader, clientWriter)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return client
}

func TestUploadWritesFileAndCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	s := NewSFTPClientWithClient(newPipeClient(t), "files.example.com", root, "")

	url, err := s.Upload(context.Background(), "case-documents/c1/abc-pan.pdf", "application/pdf", []byte("%PDF-1.4"))

	require.NoError(t, err)
	written, err := os.ReadFile(filepath.Join(root, "case-documents", "c1", "abc-pan.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(written))
	assert.Equal(t, "sftp://files.example.com"+filepath.ToSlash(root)+"/case-documents/c1/abc-pan.pdf", url)
}

func TestUploadUsesPublicBaseURL(t *testing.T) {
	s := NewSFTPClientWithClient(newPipeClient(t), "files.example.com", t.TempDir(), "https://files.example.com/docs/")

	url, err := s.Upload(context.Background(), "case-documents/c1/x.pdf", "application/pdf", []byte("x"))

	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/docs/case-documents/c1/x.pdf", url)
}

func TestUploadFailsWhenParentIsAFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "case-documents"), []byte("file"), 0o600))
	s := NewSFTPClientWithClient(newPipeClient(t), "h", root, "")

	_, err := s.Upload(context.Background(), "case-documents/c1/x.pdf", "application/pdf", []byte("x"))

	assert.Error(t, err)
}

func TestCloseWithoutClientDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { (&SFTPClient{}).Close(context.Background()) })
}
