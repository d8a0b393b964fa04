package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// GetInt returns integer stored under the key or 0 if there is no such key.
func GetInt(ctx storage.Context, key any) int {
	val := storage.Get(ctx, key)
	if val == nil {
		return 0
	}

	return val.(int)
}

// SetInt puts integer into contract storage. Zero values are not stored,
// the key is deleted instead.
func SetInt(ctx storage.Context, key any, val int) {
	if val == 0 {
		storage.Delete(ctx, key)
		return
	}

	storage.Put(ctx, key, val)
}
