package ssh

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/kwesinavilot/llama-index-do-spaces-reader/pkg/storage"
)

// Filesystem implements storage.Filesystem over SFTP. It serves as an
// alternative persistence target for index artifacts on hosts that have
// no object store.
type Filesystem struct {
	name       string
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	remotePath string
}

func init() {
	storage.Register("ssh", func(ctx context.Context, cfg storage.Config) (storage.Filesystem, error) {
		return New(cfg)
	})
}

// New creates a new SSH/SFTP filesystem. The connection is established
// here; a wrong password or unreachable host fails at construction.
func New(cfg storage.Config) (*Filesystem, error) {
	sshCfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, err
	}

	clientConfig := &ssh.ClientConfig{
		User:            sshCfg.User,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: Add host key verification
		Timeout:         30 * time.Second,
	}

	if sshCfg.Password != "" {
		clientConfig.Auth = append(clientConfig.Auth, ssh.Password(sshCfg.Password))
	}

	if sshCfg.KeyPath != "" {
		key, err := os.ReadFile(sshCfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH key: %w", err)
		}

		var signer ssh.Signer
		if sshCfg.KeyPassphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(sshCfg.KeyPassphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key: %w", err)
		}

		clientConfig.Auth = append(clientConfig.Auth, ssh.PublicKeys(signer))
	}

	if sshCfg.Port == 0 {
		sshCfg.Port = 22
	}

	addr := fmt.Sprintf("%s:%d", sshCfg.Host, sshCfg.Port)
	sshClient, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "connect", storage.ErrConnFailed)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, storage.WrapError(cfg.Name, "sftp init", err)
	}

	if err := sftpClient.MkdirAll(sshCfg.RemotePath); err != nil {
		sftpClient.Close()
		sshClient.Close()
		return nil, storage.WrapError(cfg.Name, "mkdir", err)
	}

	return &Filesystem{
		name:       cfg.Name,
		sshClient:  sshClient,
		sftpClient: sftpClient,
		remotePath: sshCfg.RemotePath,
	}, nil
}

func (f *Filesystem) Name() string { return f.name }
func (f *Filesystem) Type() string { return "ssh" }

// Write stores data under path
func (f *Filesystem) Write(ctx context.Context, filePath string, data []byte) error {
	remotePath := path.Join(f.remotePath, filePath)

	if err := f.sftpClient.MkdirAll(path.Dir(remotePath)); err != nil {
		return storage.WrapError(f.name, "mkdir", err)
	}

	remoteFile, err := f.sftpClient.Create(remotePath)
	if err != nil {
		return storage.WrapError(f.name, "create", err)
	}
	defer remoteFile.Close()

	if _, err := remoteFile.Write(data); err != nil {
		return storage.WrapError(f.name, "write", err)
	}

	return nil
}

// Read returns the full content of the file at path
func (f *Filesystem) Read(ctx context.Context, filePath string) ([]byte, error) {
	body, err := f.Open(ctx, filePath)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, storage.WrapError(f.name, "read", err)
	}
	return data, nil
}

// Open returns a stream over the file at path
func (f *Filesystem) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	remotePath := path.Join(f.remotePath, filePath)

	remoteFile, err := f.sftpClient.Open(remotePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.WrapError(f.name, "open", storage.ErrNotFound)
		}
		return nil, storage.WrapError(f.name, "open", err)
	}

	return remoteFile, nil
}

// Delete removes the file at path
func (f *Filesystem) Delete(ctx context.Context, filePath string) error {
	remotePath := path.Join(f.remotePath, filePath)
	if err := f.sftpClient.Remove(remotePath); err != nil {
		return storage.WrapError(f.name, "delete", err)
	}
	return nil
}

// List returns files under prefix
func (f *Filesystem) List(ctx context.Context, prefix string, recursive bool) ([]storage.FileInfo, error) {
	root := path.Join(f.remotePath, prefix)

	var files []storage.FileInfo

	if recursive {
		walker := f.sftpClient.Walk(root)
		for walker.Step() {
			if err := walker.Err(); err != nil {
				return nil, storage.WrapError(f.name, "list", err)
			}
			if walker.Stat().IsDir() {
				continue
			}

			rel, err := relPath(f.remotePath, walker.Path())
			if err != nil {
				return nil, storage.WrapError(f.name, "list", err)
			}

			files = append(files, storage.FileInfo{
				Path:    rel,
				Size:    walker.Stat().Size(),
				ModTime: walker.Stat().ModTime(),
			})
		}
		return files, nil
	}

	entries, err := f.sftpClient.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, storage.WrapError(f.name, "list", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		rel, err := relPath(f.remotePath, path.Join(root, entry.Name()))
		if err != nil {
			return nil, storage.WrapError(f.name, "list", err)
		}

		files = append(files, storage.FileInfo{
			Path:    rel,
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}

	return files, nil
}

// ListDir returns the names of the immediate children of path
func (f *Filesystem) ListDir(ctx context.Context, dirPath string) ([]string, error) {
	entries, err := f.sftpClient.ReadDir(path.Join(f.remotePath, dirPath))
	if err != nil {
		return nil, storage.WrapError(f.name, "listdir", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

// Stat returns metadata about the file at path
func (f *Filesystem) Stat(ctx context.Context, filePath string) (*storage.FileInfo, error) {
	remotePath := path.Join(f.remotePath, filePath)

	info, err := f.sftpClient.Stat(remotePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.WrapError(f.name, "stat", storage.ErrNotFound)
		}
		return nil, storage.WrapError(f.name, "stat", err)
	}

	return &storage.FileInfo{
		Path:    filePath,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Exists checks whether a file exists at path
func (f *Filesystem) Exists(ctx context.Context, filePath string) (bool, error) {
	if _, err := f.sftpClient.Stat(path.Join(f.remotePath, filePath)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, storage.WrapError(f.name, "exists", err)
	}
	return true, nil
}

// MkdirAll creates a directory hierarchy under path
func (f *Filesystem) MkdirAll(ctx context.Context, dirPath string) error {
	if err := f.sftpClient.MkdirAll(path.Join(f.remotePath, dirPath)); err != nil {
		return storage.WrapError(f.name, "mkdir", err)
	}
	return nil
}

// Close closes the SFTP and SSH sessions
func (f *Filesystem) Close() error {
	if err := f.sftpClient.Close(); err != nil {
		f.sshClient.Close()
		return err
	}
	return f.sshClient.Close()
}

func relPath(base, full string) (string, error) {
	if base == full {
		return "", nil
	}
	if len(full) > len(base) && full[:len(base)] == base && full[len(base)] == '/' {
		return full[len(base)+1:], nil
	}
	return "", fmt.Errorf("path %s is outside base %s", full, base)
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{}

	if v, ok := options["host"].(string); ok {
		cfg.Host = v
	} else {
		return nil, fmt.Errorf("missing required option: host")
	}
	if v, ok := options["user"].(string); ok {
		cfg.User = v
	} else {
		return nil, fmt.Errorf("missing required option: user")
	}
	if v, ok := options["remote_path"].(string); ok {
		cfg.RemotePath = v
	} else {
		return nil, fmt.Errorf("missing required option: remote_path")
	}
	if v, ok := options["port"].(float64); ok {
		cfg.Port = int(v)
	}
	if v, ok := options["password"].(string); ok {
		cfg.Password = v
	}
	if v, ok := options["key_path"].(string); ok {
		cfg.KeyPath = v
	}
	if v, ok := options["key_passphrase"].(string); ok {
		cfg.KeyPassphrase = v
	}

	return cfg, nil
}
