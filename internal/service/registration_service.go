package service

import (
	"context"
	"strings"
	"time"

	"vehicle-registry/internal/core/cache"
	"vehicle-registry/internal/domain"
	"vehicle-registry/pkg/utils"
)

const regDetailTTL = 5 * time.Minute

type RegistrationService struct {
	regs  domain.RegistrationRepository
	users domain.UserRepository
	cache *cache.Cache // 可为 nil（测试/无 redis 环境），为 nil 则直读库
	now   func() time.Time
}

func NewRegistrationService(regs domain.RegistrationRepository, users domain.UserRepository, c *cache.Cache) *RegistrationService {
	return &RegistrationService{regs: regs, users: users, cache: c, now: time.Now}
}

// Create 提交登记：校验通过后原子创建 Vehicle/Owner/VehicleRegistration，
// 初始状态 PENDING。提交人一律取令牌里的 uid。
func (s *RegistrationService) Create(userID string, in *CreateRegistrationInput) (*domain.VehicleRegistration, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	now := s.now()
	reg := &domain.VehicleRegistration{
		ID:          utils.NewID(),
		Status:      domain.StatusPending,
		SubmittedAt: now,
		UserID:      userID,
		Vehicle: &domain.Vehicle{
			ID:            utils.NewID(),
			PlateNumber:   strings.TrimSpace(in.Vehicle.PlateNumber),
			Make:          strings.TrimSpace(in.Vehicle.Make),
			Model:         strings.TrimSpace(in.Vehicle.Model),
			Year:          in.Vehicle.Year,
			Color:         strings.TrimSpace(in.Vehicle.Color),
			ChassisNumber: strings.TrimSpace(in.Vehicle.ChassisNumber),
			EngineNumber:  strings.TrimSpace(in.Vehicle.EngineNumber),
			VehicleType:   strings.TrimSpace(in.Vehicle.VehicleType),
		},
		Owner: &domain.Owner{
			ID:          utils.NewID(),
			FullName:    strings.TrimSpace(in.Owner.FullName),
			NationalID:  strings.TrimSpace(in.Owner.NationalID),
			PhoneNumber: strings.TrimSpace(in.Owner.PhoneNumber),
			Email:       strings.TrimSpace(in.Owner.Email),
			Address:     strings.TrimSpace(in.Owner.Address),
		},
	}
	if err := s.regs.Create(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Get 返回带嵌套 vehicle/owner/user 的登记详情，走 redis 读穿缓存。
// requester 非 ADMIN 时只能读自己的行，越权按不存在处理，不泄露行是否存在。
func (s *RegistrationService) Get(ctx context.Context, id, requesterID, requesterRole string) (*domain.VehicleRegistration, error) {
	reg, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}
	if requesterRole != domain.RoleAdmin && reg.UserID != requesterID {
		return nil, ErrRegistrationNotFound
	}
	return reg, nil
}

func (s *RegistrationService) load(ctx context.Context, id string) (*domain.VehicleRegistration, error) {
	if s.cache == nil {
		return s.regs.FindByID(id)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, regCacheKey(id), regDetailTTL,
		func(context.Context) (*domain.VehicleRegistration, error) {
			return s.regs.FindByID(id)
		})
}

// List 市民固定只看自己的行；管理员默认看全部，userOnly=true 时收窄到本人。
func (s *RegistrationService) List(requesterID, requesterRole string, userOnly bool, status domain.Status, offset, limit int) ([]domain.VehicleRegistration, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, FieldErrors{{Field: "status", Message: "must be PENDING, APPROVED or REJECTED"}}
	}
	f := domain.RegistrationFilter{Status: status, Offset: offset, Limit: limit}
	if requesterRole != domain.RoleAdmin || userOnly {
		f.UserID = requesterID
	}
	return s.regs.List(f)
}

// UpdateStatus 审核：PENDING -> APPROVED/REJECTED，终态拒绝再流转。
// 通过时签发登记号，驳回必须带原因；成功后失效详情缓存。
func (s *RegistrationService) UpdateStatus(ctx context.Context, id string, in *UpdateStatusInput) (*domain.VehicleRegistration, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	reg, err := s.regs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}

	now := s.now()
	regNumber := ""
	if in.Status == domain.StatusApproved {
		regNumber = utils.NewRegistrationNumber(now)
	}
	if err := domain.ApplyTransition(reg, in.Status, strings.TrimSpace(in.RejectionReason), regNumber, now); err != nil {
		return nil, ErrStateConflict
	}

	updated, err := s.regs.UpdateStatus(reg)
	if err != nil {
		return nil, err
	}
	if !updated {
		// 并发审核竞争失败：行已离开 PENDING
		return nil, ErrStateConflict
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, regCacheKey(id))
	}
	return reg, nil
}

func regCacheKey(id string) string { return "reg:detail:" + id }
