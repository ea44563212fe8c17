// Package repository defines the record store interface and errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithBucketCapacity sets the initial record capacity allocated per
// publisher bucket.
func WithBucketCapacity(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.bucketCapacity = n
		}
	}
}
