package service

import (
	"strings"
	"sync"

	"vehicle-registry/internal/domain"
)

// 内存版仓储，测试用，不依赖数据库。

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(offset, limit int, q string) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if q != "" && !strings.Contains(u.Email, q) && !strings.Contains(u.FullName, q) {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(u *domain.User) error {
	return r.Create(u)
}

func (r *fakeUserRepo) SoftDelete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakeRegRepo struct {
	mu   sync.Mutex
	regs map[string]*domain.VehicleRegistration
}

func newFakeRegRepo() *fakeRegRepo {
	return &fakeRegRepo{regs: map[string]*domain.VehicleRegistration{}}
}

func (r *fakeRegRepo) Create(reg *domain.VehicleRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg.Vehicle != nil {
		reg.VehicleID = reg.Vehicle.ID
	}
	if reg.Owner != nil {
		reg.OwnerID = reg.Owner.ID
	}
	cp := *reg
	r.regs[reg.ID] = &cp
	return nil
}

func (r *fakeRegRepo) FindByID(id string) (*domain.VehicleRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg, ok := r.regs[id]; ok {
		cp := *reg
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRegRepo) List(f domain.RegistrationFilter) ([]domain.VehicleRegistration, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.VehicleRegistration
	for _, reg := range r.regs {
		if f.UserID != "" && reg.UserID != f.UserID {
			continue
		}
		if f.Status != "" && reg.Status != f.Status {
			continue
		}
		out = append(out, *reg)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRegRepo) UpdateStatus(reg *domain.VehicleRegistration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.regs[reg.ID]
	if !ok || cur.Status != domain.StatusPending {
		return false, nil
	}
	cur.Status = reg.Status
	cur.ReviewedAt = reg.ReviewedAt
	cur.RejectionReason = reg.RejectionReason
	cur.RegistrationNumber = reg.RegistrationNumber
	return true, nil
}
