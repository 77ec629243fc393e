// Package assets memoizes the static files the chat surfaces read: the
// update-notes document and the avatar images.
//
// Every load happens at most once per path until Invalidate is called. Load
// failures are logged and degrade to an empty document or an absent image;
// they are cached too, so a missing file is not retried on every render.
package assets

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg" // register decoder
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/papercomputeco/apibot/pkg/updates"
)

// ContrastFactor is applied to images loaded with enhance set.
const ContrastFactor = 1.8

type imageKey struct {
	path    string
	enhance bool
}

type loadedImage struct {
	img image.Image
	ok  bool
}

type loadedFile struct {
	data []byte
	ok   bool
}

// Cache is safe for concurrent use.
type Cache struct {
	logger *slog.Logger

	mu     sync.Mutex
	notes  map[string]*updates.Document
	images map[imageKey]loadedImage
	files  map[string]loadedFile
}

// NewCache returns an empty cache.
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		logger: logger,
		notes:  make(map[string]*updates.Document),
		images: make(map[imageKey]loadedImage),
		files:  make(map[string]loadedFile),
	}
}

// Notes returns the update-notes document at path, or an empty document when
// it cannot be read or parsed.
func (c *Cache) Notes(path string) *updates.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	if doc, ok := c.notes[path]; ok {
		return doc
	}

	doc, err := updates.Load(path)
	if err != nil {
		c.logger.Warn("update notes unavailable", "path", path, "error", err)
		doc = updates.Empty()
	}
	c.notes[path] = doc
	return doc
}

// File returns the raw bytes at path.
func (c *Cache) File(path string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.fileLocked(path)
	return f.data, f.ok
}

func (c *Cache) fileLocked(path string) loadedFile {
	if f, ok := c.files[path]; ok {
		return f
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("asset unavailable", "path", path, "error", err)
		c.files[path] = loadedFile{}
		return loadedFile{}
	}

	f := loadedFile{data: data, ok: true}
	c.files[path] = f
	return f
}

// Image decodes the image at path, boosting contrast when enhance is set.
func (c *Cache) Image(path string, enhance bool) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := imageKey{path: path, enhance: enhance}
	if li, ok := c.images[key]; ok {
		return li.img, li.ok
	}

	li := loadedImage{}
	if f := c.fileLocked(path); f.ok {
		img, _, err := image.Decode(bytes.NewReader(f.data))
		if err != nil {
			c.logger.Warn("decoding image", "path", path, "error", err)
		} else {
			if enhance {
				img = Contrast(img, ContrastFactor)
			}
			li = loadedImage{img: img, ok: true}
		}
	}

	c.images[key] = li
	return li.img, li.ok
}

// DataURI returns the image at path as a base64 data URI suitable for an
// <img src>. Enhanced images are re-encoded as PNG; plain ones keep their
// original bytes and sniffed content type.
func (c *Cache) DataURI(path string, enhance bool) (string, bool) {
	if !enhance {
		data, ok := c.File(path)
		if !ok {
			return "", false
		}
		return encodeDataURI(http.DetectContentType(data), data), true
	}

	img, ok := c.Image(path, true)
	if !ok {
		return "", false
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		c.logger.Warn("encoding image", "path", path, "error", err)
		return "", false
	}
	return encodeDataURI("image/png", buf.Bytes()), true
}

func encodeDataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Invalidate drops everything cached for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.notes, path)
	delete(c.files, path)
	delete(c.images, imageKey{path: path})
	delete(c.images, imageKey{path: path, enhance: true})
}
