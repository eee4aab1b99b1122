package identity

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/repositories/kv"
	"github.com/golang-jwt/jwt/v5"
)

// memKV is an in-memory kv.Repository.
type memKV struct {
	ns     string
	data   map[string]map[string]string
	putErr error
}

func newMemKV(ns string) *memKV {
	return &memKV{ns: ns, data: map[string]map[string]string{}}
}

func (m *memKV) bucket() map[string]string {
	b, ok := m.data[m.ns]
	if !ok {
		b = map[string]string{}
		m.data[m.ns] = b
	}
	return b
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.bucket()[key]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, key, value string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.bucket()[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.bucket(), key)
	return nil
}

func (m *memKV) List(context.Context) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range m.bucket() {
		out[k] = v
	}
	return out, nil
}

func (m *memKV) Clear(context.Context) error {
	delete(m.data, m.ns)
	return nil
}

func (m *memKV) Namespace() string { return m.ns }

func (m *memKV) WithNamespace(ns string) kv.Repository {
	return &memKV{ns: ns, data: m.data}
}

var errStore = errors.New("disk full")

func makeToken(uid, email string, exp time.Time) string {
	claims := idClaims{
		UID:   uid,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return s
}
