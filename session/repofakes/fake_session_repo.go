package fakesessionrepo

import (
	"sync"

	"github.com/Tabo-ecom/grandline-go/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo keeps the token in memory. Used by tests and by callers
// that do not want persistence across runs.
type FakeSessionRepo struct {
	token string
	lock  sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

func (sr *FakeSessionRepo) Get() (string, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	return sr.token, nil
}

func (sr *FakeSessionRepo) Set(token string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.token = token
	return nil
}

func (sr *FakeSessionRepo) Clear() error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.token = ""
	return nil
}
