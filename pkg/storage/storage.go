// Package storage abstracts file storage behind swappable disks. Product
// images go to the "local" disk in development and to S3-compatible object
// storage in production.
//
//	storage.Connect()
//	storage.Put("products/42/main.jpg", data)
//	url := storage.URL("products/42/main.jpg")
package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/nikhilverma/shopline/config"
	"github.com/nikhilverma/shopline/pkg/logger"
)

// Disk is a storage driver.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	Size(path string) (int64, error)
	Delete(path string) error
	URL(path string) string
	Files(directory string) ([]string, error)
}

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the configured disks. Call once at startup.
func Connect() {
	mu.Lock()
	defer mu.Unlock()

	defaultDisk = config.Get("STORAGE_DISK", "local")
	disks["local"] = newLocalDisk()

	if config.Get("S3_BUCKET", "") != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	mu.RLock()
	d, ok := disks[name]
	mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// RegisterDisk installs a custom driver, used by tests.
func RegisterDisk(name string, d Disk) {
	mu.Lock()
	disks[name] = d
	mu.Unlock()
}

func active() Disk { return Use(defaultDisk) }

// Put writes content on the default disk.
func Put(path string, content []byte) error { return active().Put(path, content) }

// PutStream writes from r on the default disk.
func PutStream(path string, r io.Reader) error { return active().PutStream(path, r) }

// Get reads a file from the default disk.
func Get(path string) ([]byte, error) { return active().Get(path) }

// GetStream opens a file on the default disk. Caller closes it.
func GetStream(path string) (io.ReadCloser, error) { return active().GetStream(path) }

// Exists reports whether path exists on the default disk.
func Exists(path string) bool { return active().Exists(path) }

// Delete removes a file from the default disk.
func Delete(path string) error { return active().Delete(path) }

// URL returns the public URL for path on the default disk.
func URL(path string) string { return active().URL(path) }

// Size returns a file's size on the default disk.
func Size(path string) (int64, error) { return active().Size(path) }

// Files lists files directly inside directory on the default disk.
func Files(directory string) ([]string, error) { return active().Files(directory) }
