package snapshot_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/sparseset"
	"github.com/hupe1980/sparseset/blobstore"
	"github.com/hupe1980/sparseset/snapshot"
)

func Example() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	s := sparseset.New[uint32](100)
	s.MustInsert(7)
	s.MustInsert(3)
	s.MustInsert(42)

	if err := snapshot.Save(ctx, store, "visited", s, snapshot.WithCompression("zstd")); err != nil {
		panic(err)
	}

	loaded, err := snapshot.Load[uint32](ctx, store, "visited")
	if err != nil {
		panic(err)
	}
	fmt.Println(loaded, loaded.Cap())
	// Output: {7, 3, 42} 43
}
