package flooring

import "context"

// ObjectStore is the object storage capability the engine reads snapshots
// from and writes audit documents to. Implemented by s3store.Store.
type ObjectStore interface {
	// List returns every key under the prefix, sorted ascending.
	List(ctx context.Context, prefix string) ([]string, error)

	// Get reads one object fully.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes one object, overwriting any previous value.
	Put(ctx context.Context, key string, body []byte, contentType string) error
}
