// Package storage keeps uploaded files (employee avatars) on local disk and
// builds their public URLs.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const AvatarDir = "avatar"

type Disk struct {
	root    string
	baseURL string
}

// NewDisk stores files under root; baseURL is the public prefix the router
// serves root from (for example "http://host/storage").
func NewDisk(root, baseURL string) *Disk {
	return &Disk{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *Disk) Root() string {
	return d.root
}

// Put writes content under dir with a random name keeping the original
// extension and returns the stored file name.
func (d *Disk) Put(dir, originalName string, content io.Reader) (string, error) {
	name, err := randomName(originalName)
	if err != nil {
		return "", err
	}

	target := filepath.Join(d.root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	file, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return name, nil
}

func (d *Disk) Delete(dir, name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(d.root, dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (d *Disk) URL(dir, name string) string {
	if name == "" {
		return ""
	}
	return d.baseURL + "/" + dir + "/" + name
}

func randomName(originalName string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random file name: %w", err)
	}
	return hex.EncodeToString(buf) + strings.ToLower(filepath.Ext(originalName)), nil
}
