package cache

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/dddscan/domain"
)

func newTestCache(t *testing.T) (*ItemCache, *badger.DB) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c, err := New(db, nil)
	require.NoError(t, err)
	return c, db
}

func sampleItem() *domain.SourceItem {
	ret := domain.NewTypeReference("Money")
	return &domain.SourceItem{
		FQN:       `App\Domain\Order`,
		Kind:      domain.DeclarationClass,
		File:      "src/Order.php",
		Namespace: `App\Domain`,
		Imports:   []domain.Import{{Alias: "Money", FQN: `App\Shared\Money`}},
		Extends:   &ret,
		Methods: []domain.MethodSignature{
			{
				Owner:     `App\Domain\Order`,
				Name:      "total",
				Arguments: []domain.Argument{{Name: "c", Type: domain.NewTypeReference(`\Currency`), Nullable: true}},
				Return:    domain.NullableReturn(domain.NewTypeReference("Money")),
				Throws:    []domain.TypeReference{domain.UnknownException()},
			},
		},
	}
}

func TestItemCacheMissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	content := []byte("<?php class Order {}")

	_, found, err := c.Get(ctx, content)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Put(ctx, content, Entry{Item: sampleItem()}))

	entry, found, err := c.Get(ctx, content)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleItem(), entry.Item)

	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestItemCacheEmptyEntry(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	content := []byte("<?php echo 1;")

	require.NoError(t, c.Put(ctx, content, Entry{}))

	entry, found, err := c.Get(ctx, content)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, entry.Item)
}

func TestItemCacheKeyedByContent(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, []byte("a"), Entry{Item: sampleItem()}))

	_, found, err := c.Get(ctx, []byte("b"))
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, Key([]byte("a")), Key([]byte("a")))
	assert.NotEqual(t, Key([]byte("a")), Key([]byte("b")))
	assert.Contains(t, Key([]byte("a")), SchemaVersion)
}

func TestItemCacheCorruptEntryIsMiss(t *testing.T) {
	c, db := newTestCache(t)
	ctx := context.Background()
	content := []byte("<?php class Broken {}")

	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key(content)), []byte("not gzip"))
	}))

	_, found, err := c.Get(ctx, content)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestItemCachePurge(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, []byte("a"), Entry{}))
	require.NoError(t, c.Put(ctx, []byte("b"), Entry{}))
	require.NoError(t, c.Purge())

	n, err := c.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestItemCacheCancelledContext(t *testing.T) {
	c, _ := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.Get(ctx, []byte("a"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.Put(ctx, []byte("a"), Entry{}), context.Canceled)
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, nil)
	require.NoError(t, err)

	require.NoError(t, c.Put(context.Background(), []byte("a"), Entry{Item: sampleItem()}))
	require.NoError(t, c.Close())

	reopened, err := Open(dir, nil)
	require.NoError(t, err)
	defer reopened.Close()

	entry, found, err := reopened.Get(context.Background(), []byte("a"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `App\Domain\Order`, string(entry.Item.FQN))

	_, err = Open("", nil)
	assert.Error(t, err)
}
