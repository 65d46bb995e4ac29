package sftpclient

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/sftp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newInMemClient connects an sftp client to an in-memory request server
// through a pair of pipes.
func newInMemClient(t *testing.T) *sftp.Client {
	t.Helper()
	c2sR, c2sW := io.Pipe()
	s2cR, s2cW := io.Pipe()

	server := sftp.NewRequestServer(struct {
		io.Reader
		io.WriteCloser
	}{c2sR, s2cW}, sftp.InMemHandler())
	go server.Serve()

	client, err := sftp.NewClientPipe(s2cR, c2sW)
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Host: "test-host", User: "test-user", Pass: "test-pass"}.withDefaults()

	assert.Equal(t, 22, cfg.Port)
	assert.Equal(t, "/", cfg.RemoteDir)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, "/employees.json", Config{}.RemotePath("employees.json"))
	assert.Equal(t, "/inbound/employees.json", Config{RemoteDir: "/inbound"}.RemotePath("employees.json"))
}

func TestHostKeyCallback(t *testing.T) {
	t.Run("Should skip checks when insecure", func(t *testing.T) {
		cb, err := Config{InsecureIgnoreHostKey: true}.hostKeyCallback()
		require.NoError(t, err)
		assert.NotNil(t, cb)
	})

	t.Run("Should require a known_hosts file otherwise", func(t *testing.T) {
		_, err := Config{}.hostKeyCallback()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SFTP_KNOWN_HOSTS")
	})

	t.Run("Should load a known_hosts file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "known_hosts")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		cb, err := Config{KnownHostsFile: path}.hostKeyCallback()
		require.NoError(t, err)
		assert.NotNil(t, cb)
	})

	t.Run("Should fail on a missing known_hosts file", func(t *testing.T) {
		_, err := Config{KnownHostsFile: filepath.Join(t.TempDir(), "absent")}.hostKeyCallback()
		assert.Error(t, err)
	})
}

func TestUploadFileValidation(t *testing.T) {
	const (
		testHost = "test-host"
		testUser = "test-user"
		testPass = "test-pass"
		testFile = "test.json"
	)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testFile, []byte("[]"), 0o644))

	testCases := []struct {
		name          string
		cfg           Config
		localPath     string
		errorContains string
	}{
		{
			name:          "Missing credentials",
			cfg:           Config{},
			localPath:     testFile,
			errorContains: "sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS",
		},
		{
			name:          "Missing local file",
			cfg:           Config{Host: testHost, User: testUser, Pass: testPass, InsecureIgnoreHostKey: true},
			localPath:     "non_existent_file.json",
			errorContains: "sftp: open local file",
		},
		{
			name:          "Host key checking without known_hosts",
			cfg:           Config{Host: testHost, User: testUser, Pass: testPass},
			localPath:     testFile,
			errorContains: "SFTP_KNOWN_HOSTS",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := UploadFile(context.Background(), tc.cfg, fs, tc.localPath, testFile)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}

func TestUploadFileCanceled(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.json", []byte("[]"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 192.0.2.0/24 is reserved for documentation and never answers.
	cfg := Config{Host: "192.0.2.1", User: "u", Pass: "p", InsecureIgnoreHostKey: true, Timeout: 2 * time.Second}
	err := UploadFile(ctx, cfg, fs, "a.json", "a.json")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "sftp: dial"))
}

func TestUpload(t *testing.T) {
	client := newInMemClient(t)

	err := upload(client, "/inbound/hr", strings.NewReader(`[{"external_id":"e1"}]`), "employees.json")
	require.NoError(t, err)

	f, err := client.Open("/inbound/hr/employees.json")
	require.NoError(t, err)
	defer f.Close()

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, `[{"external_id":"e1"}]`, string(b))
}
