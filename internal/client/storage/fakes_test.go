package storage

import (
	"context"
	"sync"

	"github.com/villa-app/villa/internal/common"
)

// fakeRemote is an in-memory remote.Store with switchable failures.
type fakeRemote struct {
	mu   sync.Mutex
	data map[string][]byte

	token string // token minted by ExchangeSignature and required afterwards

	challengeErr error
	exchangeErr  error
	putErr       error
	getErr       error
	deleteErr    error
	failPutKeys  map[string]error

	putCalls map[string]int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		data:     map[string][]byte{},
		token:    "tok-1",
		putCalls: map[string]int{},
	}
}

func (f *fakeRemote) GenerateChallenge(_ context.Context, address string) (string, error) {
	if f.challengeErr != nil {
		return "", f.challengeErr
	}
	return "challenge-" + address, nil
}

func (f *fakeRemote) ExchangeSignature(_ context.Context, _, _ string, _, _ []byte) (string, error) {
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeRemote) Put(_ context.Context, token, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls[key]++
	if token != f.token {
		return common.ErrUnauthorized
	}
	if f.putErr != nil {
		return f.putErr
	}
	if err, ok := f.failPutKeys[key]; ok {
		return err
	}
	v := make([]byte, len(value))
	copy(v, value)
	f.data[key] = v
	return nil
}

func (f *fakeRemote) Get(_ context.Context, token, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.token {
		return nil, common.ErrUnauthorized
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return v, nil
}

func (f *fakeRemote) Delete(_ context.Context, token, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.token {
		return common.ErrUnauthorized
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.data, key)
	return nil
}

func (f *fakeRemote) PresignAvatarUpload(_ context.Context, token string) (string, string, error) {
	if token != f.token {
		return "", "", common.ErrUnauthorized
	}
	return "avatars/1", "https://blobs.example/avatars/1?sig=x", nil
}

func (f *fakeRemote) value(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key]
}

// fakeProvider satisfies credential.Provider for handshake tests.
type fakeProvider struct {
	address string
	signErr error
	resets  int
}

func (p *fakeProvider) CreateAccount(context.Context) (string, error) { return p.address, nil }
func (p *fakeProvider) SignIn(context.Context) (string, error)        { return p.address, nil }

func (p *fakeProvider) SignMessage(_ context.Context, message, _ string) ([]byte, error) {
	if p.signErr != nil {
		return nil, p.signErr
	}
	return []byte("signed:" + message), nil
}

func (p *fakeProvider) PublicKey(context.Context, string) ([]byte, error) {
	return []byte("pub"), nil
}

func (p *fakeProvider) Reset(context.Context) error {
	p.resets++
	return nil
}
