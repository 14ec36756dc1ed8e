// Package repository defines the dataset registry interface and errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithCapacity bounds how many datasets the store holds before evicting
// the oldest one.
func WithCapacity(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}
