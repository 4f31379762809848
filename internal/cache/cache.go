// Package cache stores extracted source items in badger, keyed by the hash
// of the file content, so unchanged files skip parsing on the next run.
package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/ludo-technologies/dddscan/domain"
)

const (
	// SchemaVersion changes whenever the cached payload layout changes
	SchemaVersion = "v1"

	keyPrefixItem = "dddscan:item:" + SchemaVersion + ":"
)

// Entry is the cached extraction result of one file. Item is nil for files
// without a class-like declaration.
type Entry struct {
	Item *domain.SourceItem `json:"item,omitempty"`
}

// ItemCache is a content-addressed store of extraction results.
// It is safe for concurrent use.
type ItemCache struct {
	db     *badger.DB
	logger *slog.Logger
	owned  bool
}

// Open opens (or creates) an on-disk cache in dir
func Open(dir string, logger *slog.Logger) (*ItemCache, error) {
	if dir == "" {
		return nil, domain.NewConfigError("cache directory must not be empty", nil)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening cache at %s: %w", dir, err)
	}
	c, err := New(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	c.owned = true
	return c, nil
}

// New wraps an already opened database. The caller keeps ownership of db.
func New(db *badger.DB, logger *slog.Logger) (*ItemCache, error) {
	if db == nil {
		return nil, fmt.Errorf("badger db must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemCache{db: db, logger: logger}, nil
}

// Close closes the database if the cache opened it
func (c *ItemCache) Close() error {
	if c == nil || !c.owned {
		return nil
	}
	return c.db.Close()
}

// Key returns the cache key for a file content
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return keyPrefixItem + hex.EncodeToString(sum[:])
}

// Get returns the cached entry for content. found is false on a miss.
func (c *ItemCache) Get(ctx context.Context, content []byte) (entry Entry, found bool, err error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}

	key := Key(content)
	var payload []byte
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	if err := decode(payload, &entry); err != nil {
		// a corrupt entry is a miss; the next Put overwrites it
		c.logger.Warn("discarding unreadable cache entry", slog.String("key", key), slog.String("error", err.Error()))
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Put stores entry under the hash of content
func (c *ItemCache) Put(ctx context.Context, content []byte, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := encode(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	key := Key(content)
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), payload)
	})
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	c.logger.Debug("cached extraction", slog.String("key", key), slog.Int("bytes", len(payload)))
	return nil
}

// Purge removes every cached entry of the current schema
func (c *ItemCache) Purge() error {
	return c.db.DropPrefix([]byte(keyPrefixItem))
}

// Len counts cached entries
func (c *ItemCache) Len() (int, error) {
	count := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixItem)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func encode(entry Entry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return nil, fmt.Errorf("compressing: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(payload []byte, entry *Entry) error {
	gr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("opening gzip reader: %w", err)
	}
	defer gr.Close()

	data, err := io.ReadAll(gr)
	if err != nil {
		return fmt.Errorf("decompressing: %w", err)
	}
	return json.Unmarshal(data, entry)
}
