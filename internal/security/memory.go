package security

import (
	"runtime"
	"sync"
)

// SecureBytes holds key material that is zeroed when Destroy is called.
type SecureBytes struct {
	data []byte
	mu   sync.Mutex
}

// NewSecureBytesFromSlice copies data into a new SecureBytes. The caller keeps
// ownership of data.
func NewSecureBytesFromSlice(data []byte) *SecureBytes {
	secure := &SecureBytes{
		data: make([]byte, len(data)),
	}
	copy(secure.data, data)

	if len(data) > 256 {
		runtime.SetFinalizer(secure, (*SecureBytes).destroy)
	}

	return secure
}

// NewSecureBytesFromString copies s into a new SecureBytes.
func NewSecureBytesFromString(s string) *SecureBytes {
	secure := &SecureBytes{data: []byte(s)}
	if len(s) > 256 {
		runtime.SetFinalizer(secure, (*SecureBytes).destroy)
	}
	return secure
}

// Bytes returns the underlying byte slice. It is nil after Destroy.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Len reports the number of bytes held.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Destroy zeros the memory and releases it. Safe to call more than once.
func (s *SecureBytes) Destroy() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroy()
	runtime.SetFinalizer(s, nil)
}

func (s *SecureBytes) destroy() {
	if s.data != nil {
		ZeroBytes(s.data)
		s.data = nil
	}
}

// ZeroBytes overwrites data in place.
func ZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}

	for i := range data {
		data[i] = 0
	}

	for i := range data {
		data[i] = 0xFF
	}

	for i := range data {
		data[i] = 0
	}

	runtime.KeepAlive(data)
}
