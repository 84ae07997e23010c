package domain

import "time"

type Vehicle struct {
	ID            string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	PlateNumber   string `gorm:"size:32;not null" json:"plateNumber"`
	Make          string `gorm:"size:64;not null" json:"make"`
	Model         string `gorm:"size:64;not null" json:"model"`
	Year          int    `gorm:"not null" json:"year"` // >= 1900
	Color         string `gorm:"size:32;not null" json:"color"`
	ChassisNumber string `gorm:"size:64;not null" json:"chassisNumber"`
	EngineNumber  string `gorm:"size:64;not null" json:"engineNumber"`
	VehicleType   string `gorm:"size:32;not null" json:"vehicleType"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Vehicle) TableName() string { return "vehicles" }

type Owner struct {
	ID          string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	FullName    string `gorm:"size:128;not null" json:"fullName"`
	NationalID  string `gorm:"size:64;not null" json:"nationalId"`
	PhoneNumber string `gorm:"size:32;not null" json:"phoneNumber"`
	Email       string `gorm:"size:255" json:"email,omitempty"`
	Address     string `gorm:"size:255;not null" json:"address"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Owner) TableName() string { return "owners" }

// VehicleRegistration 聚合根：一辆车 + 一个车主 + 一条审核状态，
// 三者在一次提交里原子创建，车辆/车主不跨登记共享。
type VehicleRegistration struct {
	ID                 string     `gorm:"primaryKey;type:varchar(32)" json:"id"`
	RegistrationNumber string     `gorm:"size:32" json:"registrationNumber,omitempty"` // 审批通过后签发
	Status             Status     `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	SubmittedAt        time.Time  `gorm:"not null" json:"submittedAt"`
	ReviewedAt         *time.Time `json:"reviewedAt,omitempty"`
	RejectionReason    string     `gorm:"size:512" json:"rejectionReason,omitempty"`

	UserID    string `gorm:"type:varchar(32);not null;index" json:"userId"`
	VehicleID string `gorm:"type:varchar(32);not null" json:"vehicleId"`
	OwnerID   string `gorm:"type:varchar(32);not null" json:"ownerId"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Owner   *Owner   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (VehicleRegistration) TableName() string { return "vehicle_registrations" }

// RegistrationFilter 列表筛选条件；UserID 为空表示不按提交人过滤。
type RegistrationFilter struct {
	UserID string
	Status Status
	Offset int
	Limit  int
}

type RegistrationRepository interface {
	// Create 在一个事务里写入 Vehicle/Owner/VehicleRegistration 三行。
	Create(r *VehicleRegistration) error
	FindByID(id string) (*VehicleRegistration, error)
	List(f RegistrationFilter) ([]VehicleRegistration, int64, error)
	// UpdateStatus 仅当当前状态仍为 PENDING 时落库；返回是否更新到行。
	UpdateStatus(r *VehicleRegistration) (bool, error)
}
