// Package s3iotest provides an in-memory s3io.Client for tests.
package s3iotest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/s3io"
)

type object struct {
	data      []byte
	modTime   int64
	checksums map[checksum.Algorithm]string
}

// FakeClient mimics the bucket: uploads with a checksum algorithm get
// a synthetic stored checksum the way the service computes one during
// a real transfer. FailUploads and HeadErrors inject faults for
// specific paths.
type FakeClient struct {
	mu      sync.Mutex
	objects map[string]*object

	FailUploads map[string]error
	HeadErrors  map[string]error

	Uploads int
	Deletes int
}

func New() *FakeClient {
	return &FakeClient{
		objects:     make(map[string]*object),
		FailUploads: make(map[string]error),
		HeadErrors:  make(map[string]error),
	}
}

// Put seeds an object directly, with an optional stored checksum.
func (fc *FakeClient) Put(relpath string, data []byte, algo checksum.Algorithm, stored string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	obj := object{
		data:      data,
		modTime:   time.Now().Unix(),
		checksums: make(map[checksum.Algorithm]string),
	}
	if stored != "" {
		obj.checksums[algo] = stored
	}
	fc.objects[relpath] = &obj
}

func (fc *FakeClient) Destination() string {
	return "fake-bucket/prefix"
}

func (fc *FakeClient) Exists(ctx context.Context, relpath string) (bool, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	_, ok := fc.objects[relpath]
	return ok, nil
}

func (fc *FakeClient) Head(ctx context.Context, relpath string) (*s3io.ObjectHead, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if err, ok := fc.HeadErrors[relpath]; ok {
		return nil, err
	}
	obj, ok := fc.objects[relpath]
	if !ok {
		return nil, errors.New("no such object: " + relpath)
	}

	return &s3io.ObjectHead{
		Key:       relpath,
		Size:      int64(len(obj.data)),
		Checksums: obj.checksums,
	}, nil
}

func (fc *FakeClient) List(ctx context.Context) ([]s3io.ObjectInfo, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	keys := make([]string, 0, len(fc.objects))
	for key := range fc.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	infos := make([]s3io.ObjectInfo, 0, len(keys))
	for _, key := range keys {
		obj := fc.objects[key]
		infos = append(infos, s3io.ObjectInfo{
			Key:          key,
			RelPath:      key,
			Size:         int64(len(obj.data)),
			LastModified: obj.modTime,
		})
	}
	return infos, nil
}

func (fc *FakeClient) Count(ctx context.Context) (int, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	return len(fc.objects), nil
}

func (fc *FakeClient) Upload(ctx context.Context, relpath string, source io.Reader, algo checksum.Algorithm) (int64, error) {
	data, err := io.ReadAll(source)
	if err != nil {
		return 0, err
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if err, ok := fc.FailUploads[relpath]; ok {
		return 0, err
	}

	obj := object{
		data:      data,
		modTime:   time.Now().Unix(),
		checksums: make(map[checksum.Algorithm]string),
	}
	if algo != checksum.None {
		obj.checksums[algo] = "stored-" + algo.String()
	}
	fc.objects[relpath] = &obj
	fc.Uploads++

	return int64(len(data)), nil
}

func (fc *FakeClient) Download(ctx context.Context, relpath string, sink io.Writer) (int64, error) {
	fc.mu.Lock()
	obj, ok := fc.objects[relpath]
	fc.mu.Unlock()

	if !ok {
		return 0, errors.New("no such object: " + relpath)
	}

	return io.Copy(sink, bytes.NewReader(obj.data))
}

func (fc *FakeClient) Delete(ctx context.Context, relpath string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	delete(fc.objects, relpath)
	fc.Deletes++
	return nil
}
