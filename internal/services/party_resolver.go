package services

import (
	"sync"

	"github.com/knexpress/dev-kn-system-sub001/internal/repositories"
)

// PartyResolver supplies the fallback responsible-party id used when a
// booking was reviewed without a recorded reviewer. Injected so tests can
// substitute a deterministic stub.
type PartyResolver interface {
	ResolveDefaultParty() (int64, error)
}

// EmployeePartyResolver resolves the default party from the employees
// table and caches the first successful lookup for the process lifetime.
type EmployeePartyResolver struct {
	Repo repositories.EmployeeRepo

	mu sync.Mutex
	id int64
}

func (p *EmployeePartyResolver) ResolveDefaultParty() (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.id > 0 {
		return p.id, nil
	}
	id, err := p.Repo.DefaultParty()
	if err != nil {
		return 0, err
	}
	p.id = id
	return id, nil
}
