package reward

import (
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	rewards map[string]Reward
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rewards: map[string]Reward{}}
}

func (r *MemoryRepo) Create(rw Reward) (Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rewards[rw.ID] = rw
	return rw, nil
}

func (r *MemoryRepo) Get(id string) (Reward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rw, ok := r.rewards[id]
	if !ok {
		return Reward{}, ErrNotFound
	}
	return rw, nil
}

func (r *MemoryRepo) Update(rw Reward) (Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rewards[rw.ID]; !ok {
		return Reward{}, ErrNotFound
	}
	r.rewards[rw.ID] = rw
	return rw, nil
}

func (r *MemoryRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rewards[id]; !ok {
		return ErrNotFound
	}
	delete(r.rewards, id)
	return nil
}

func (r *MemoryRepo) List() ([]Reward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Reward, 0, len(r.rewards))
	for _, rw := range r.rewards {
		out = append(out, rw)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) Replace(rewards []Reward) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rewards = make(map[string]Reward, len(rewards))
	for _, rw := range rewards {
		r.rewards[rw.ID] = rw
	}
	return nil
}
