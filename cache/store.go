package cache

import (
	"time"

	gcache "github.com/Code-Hex/go-generics-cache"
)

// DefaultExpiration is how long entries live unless Set is given another duration.
const DefaultExpiration = time.Minute * 5

var store = gcache.New[string, any]()

func Get[T any](key string) *T {
	v, ok := store.Get(key)
	if !ok {
		return nil
	}
	t, ok := v.(*T)
	if !ok {
		return nil
	}
	return t
}

func Set[T any](key string, value *T) {
	SetWithExpiration(key, value, DefaultExpiration)
}

func SetWithExpiration[T any](key string, value *T, expiration time.Duration) {
	store.Set(key, value, gcache.WithExpiration(expiration))
}

func Delete(key string) {
	store.Delete(key)
}

func GetOrSet[T any](key string, factory func() (*T, error)) (*T, error) {
	v := Get[T](key)
	if v != nil {
		return v, nil
	}
	v, err := factory()
	if err != nil {
		return nil, err
	}
	Set(key, v)
	return v, nil
}
