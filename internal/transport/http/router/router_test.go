package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vehicle-registry/internal/core/auth"
	"vehicle-registry/internal/domain"
	"vehicle-registry/internal/service"
	"vehicle-registry/internal/transport/http/handler"
	"vehicle-registry/pkg/utils"
)

// 内存仓储：路由层测试不连库。

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (r *memUserRepo) Create(u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(email string) (*domain.User, error) {
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

func (r *memUserRepo) List(offset, limit int, q string) ([]domain.User, int64, error) {
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

func (r *memUserRepo) Update(u *domain.User) error { return r.Create(u) }
func (r *memUserRepo) SoftDelete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type memRegRepo struct {
	mu   sync.Mutex
	regs map[string]*domain.VehicleRegistration
}

func (r *memRegRepo) Create(reg *domain.VehicleRegistration) error {
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

func (r *memRegRepo) FindByID(id string) (*domain.VehicleRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg, ok := r.regs[id]; ok {
		cp := *reg
		return &cp, nil
	}
	return nil, nil
}

func (r *memRegRepo) List(f domain.RegistrationFilter) ([]domain.VehicleRegistration, int64, error) {
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

func (r *memRegRepo) UpdateStatus(reg *domain.VehicleRegistration) (bool, error) {
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

type testEnv struct {
	api   *gin.Engine
	admin *gin.Engine
	jwter *auth.JWTer
	users *memUserRepo
	regs  *memRegRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUserRepo{users: map[string]*domain.User{}}
	regs := &memRegRepo{regs: map[string]*domain.VehicleRegistration{}}
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "vehicle-registry", TTL: time.Hour}

	userSvc := service.NewUserService(users)
	regSvc := service.NewRegistrationService(regs, users, nil)

	authH := handler.NewAuthHandler(userSvc, jwter)
	userH := handler.NewUserHandler(userSvc)
	regH := handler.NewRegistrationHandler(regSvc)
	adminH := handler.NewAdminHandler(userSvc)

	l := zap.NewNop()
	return &testEnv{
		api:   NewAPIEngine(l, jwter, "", authH, userH, regH),
		admin: NewAdminEngine(l, jwter, "", adminH, regH),
		jwter: jwter,
		users: users,
		regs:  regs,
	}
}

func (e *testEnv) seedUser(t *testing.T, email, role string) (*domain.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("p@ssw0rd")
	require.NoError(t, err)
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test " + role,
		Role:         role,
	}
	require.NoError(t, e.users.Create(u))
	tok, err := e.jwter.Issue(u.ID, u.Role)
	require.NoError(t, err)
	return u, tok
}

func doJSON(t *testing.T, eng *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	eng.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) (int, map[string]any) {
	t.Helper()
	var out struct {
		Code int            `json:"code"`
		Msg  string         `json:"msg"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Code, out.Data
}

func submission() map[string]any {
	return map[string]any{
		"vehicle": map[string]any{
			"plateNumber":   "SOM-40011",
			"make":          "Toyota",
			"model":         "Corolla",
			"year":          2019,
			"color":         "Blue",
			"chassisNumber": "TYT-CHS-40011",
			"engineNumber":  "TYT-ENG-40011",
			"vehicleType":   "Sedan",
		},
		"owner": map[string]any{
			"fullName":    "Ahmed Hussein Ali",
			"nationalId":  "SO-NID-100250",
			"phoneNumber": "+252619556677",
			"address":     "Hodan District, Mogadishu",
		},
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.api, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "ahmed@example.com",
		"password": "p@ssw0rd",
		"fullName": "Ahmed Hussein Ali",
	})
	require.Equal(t, http.StatusOK, w.Code)
	code, data := envelope(t, w)
	require.Equal(t, 0, code)
	require.NotEmpty(t, data["accessToken"])

	// 响应里不得出现密码相关字段
	require.NotContains(t, w.Body.String(), "password")
	require.NotContains(t, w.Body.String(), "passwordHash")

	user := data["user"].(map[string]any)
	require.Equal(t, "CITIZEN", user["role"])

	w = doJSON(t, env.api, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "ahmed@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, env.api, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "ahmed@example.com", "password": "p@ssw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code)
	_, data = envelope(t, w)
	tok := data["accessToken"].(string)

	w = doJSON(t, env.api, http.MethodGet, "/api/v1/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	w := doJSON(t, env.api, http.MethodPost, "/api/v1/registrations", "", submission())
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitAndFetchRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.seedUser(t, "citizen@example.com", domain.RoleCitizen)

	w := doJSON(t, env.api, http.MethodPost, "/api/v1/registrations", tok, submission())
	require.Equal(t, http.StatusOK, w.Code)
	code, data := envelope(t, w)
	require.Equal(t, 0, code)
	require.Equal(t, "PENDING", data["status"])
	require.Nil(t, data["reviewedAt"])
	id := data["id"].(string)

	w = doJSON(t, env.api, http.MethodGet, "/api/v1/registrations/"+id, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data = envelope(t, w)
	vehicle := data["vehicle"].(map[string]any)
	owner := data["owner"].(map[string]any)
	require.Equal(t, "SOM-40011", vehicle["plateNumber"])
	require.Equal(t, "Toyota", vehicle["make"])
	require.Equal(t, "Corolla", vehicle["model"])
	require.EqualValues(t, 2019, vehicle["year"])
	require.Equal(t, "Blue", vehicle["color"])
	require.Equal(t, "TYT-CHS-40011", vehicle["chassisNumber"])
	require.Equal(t, "TYT-ENG-40011", vehicle["engineNumber"])
	require.Equal(t, "Sedan", vehicle["vehicleType"])
	require.Equal(t, "Ahmed Hussein Ali", owner["fullName"])
	require.Equal(t, "SO-NID-100250", owner["nationalId"])
	require.Equal(t, "+252619556677", owner["phoneNumber"])
	require.Equal(t, "Hodan District, Mogadishu", owner["address"])
	require.Equal(t, "PENDING", data["status"])
}

func TestSubmitYear1899Rejected(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.seedUser(t, "citizen@example.com", domain.RoleCitizen)

	body := submission()
	body["vehicle"].(map[string]any)["year"] = 1899
	w := doJSON(t, env.api, http.MethodPost, "/api/v1/registrations", tok, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "vehicle.year")
}

func TestCitizenListIsScoped(t *testing.T) {
	env := newTestEnv(t)
	_, tokA := env.seedUser(t, "a@example.com", domain.RoleCitizen)
	userB, tokB := env.seedUser(t, "b@example.com", domain.RoleCitizen)

	for _, tok := range []string{tokA, tokA, tokB} {
		w := doJSON(t, env.api, http.MethodPost, "/api/v1/registrations", tok, submission())
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, env.api, http.MethodGet, "/api/v1/registrations?userOnly=true", tokB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := envelope(t, w)
	require.EqualValues(t, 1, data["total"])
	items := data["list"].([]any)
	require.Len(t, items, 1)
	require.Equal(t, userB.ID, items[0].(map[string]any)["userId"])

	// 不带 userOnly 市民也只能看到自己的
	w = doJSON(t, env.api, http.MethodGet, "/api/v1/registrations", tokB, nil)
	_, data = envelope(t, w)
	require.EqualValues(t, 1, data["total"])
}

func TestCitizenCannotFetchForeignRegistration(t *testing.T) {
	env := newTestEnv(t)
	_, tokA := env.seedUser(t, "a@example.com", domain.RoleCitizen)
	_, tokB := env.seedUser(t, "b@example.com", domain.RoleCitizen)

	w := doJSON(t, env.api, http.MethodPost, "/api/v1/registrations", tokA, submission())
	_, data := envelope(t, w)
	id := data["id"].(string)

	w = doJSON(t, env.api, http.MethodGet, "/api/v1/registrations/"+id, tokB, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminSurfaceRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)
	_, citizenTok := env.seedUser(t, "c@example.com", domain.RoleCitizen)

	w := doJSON(t, env.admin, http.MethodGet, "/admin/v1/registrations", citizenTok, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, env.admin, http.MethodGet, "/admin/v1/registrations", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminReviewFlow(t *testing.T) {
	env := newTestEnv(t)
	_, citizenTok := env.seedUser(t, "c@example.com", domain.RoleCitizen)
	_, adminTok := env.seedUser(t, "admin@example.com", domain.RoleAdmin)

	w := doJSON(t, env.api, http.MethodPost, "/api/v1/registrations", citizenTok, submission())
	_, data := envelope(t, w)
	id := data["id"].(string)

	// 管理员看全部
	w = doJSON(t, env.admin, http.MethodGet, "/admin/v1/registrations?status=PENDING", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data = envelope(t, w)
	require.EqualValues(t, 1, data["total"])

	// 无原因驳回：400，状态不变
	w = doJSON(t, env.admin, http.MethodPatch, "/admin/v1/registrations/"+id+"/status", adminTok, map[string]any{
		"status": "REJECTED",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "rejectionReason")

	// 审批通过：reviewedAt 写入、登记号签发
	w = doJSON(t, env.admin, http.MethodPatch, "/admin/v1/registrations/"+id+"/status", adminTok, map[string]any{
		"status": "APPROVED",
	})
	require.Equal(t, http.StatusOK, w.Code)
	_, data = envelope(t, w)
	require.Equal(t, "APPROVED", data["status"])
	require.NotEmpty(t, data["reviewedAt"])
	require.NotEmpty(t, data["registrationNumber"])

	// 终态再审核：409
	w = doJSON(t, env.admin, http.MethodPatch, "/admin/v1/registrations/"+id+"/status", adminTok, map[string]any{
		"status": "REJECTED", "rejectionReason": "late objection",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "x@example.com", domain.RoleCitizen)
	_, adminTok := env.seedUser(t, "admin@example.com", domain.RoleAdmin)

	w := doJSON(t, env.admin, http.MethodGet, "/admin/v1/users?q=x@", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := envelope(t, w)
	require.EqualValues(t, 1, data["total"])
	require.NotContains(t, w.Body.String(), "passwordHash")
}

func TestUpdateProfileAndBan(t *testing.T) {
	env := newTestEnv(t)
	citizen, citizenTok := env.seedUser(t, "c@example.com", domain.RoleCitizen)
	_, adminTok := env.seedUser(t, "admin@example.com", domain.RoleAdmin)

	w := doJSON(t, env.api, http.MethodPatch, "/api/v1/me", citizenTok, map[string]any{
		"fullName": "Renamed Citizen", "phoneNumber": "+252611234567",
	})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := envelope(t, w)
	require.Equal(t, "Renamed Citizen", data["fullName"])

	w = doJSON(t, env.admin, http.MethodPost, "/admin/v1/users/"+citizen.ID+"/ban", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 封禁后账号不可再取到
	w = doJSON(t, env.api, http.MethodGet, "/api/v1/me", citizenTok, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginRateLimitedPerIP(t *testing.T) {
	env := newTestEnv(t)

	// 桶容量 10，连打 20 次必然触发 429
	var limited int
	for i := 0; i < 20; i++ {
		w := doJSON(t, env.api, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
			"email": "nobody@example.com", "password": "wrong",
		})
		if w.Code == http.StatusTooManyRequests {
			limited++
		} else {
			require.Equal(t, http.StatusUnauthorized, w.Code)
		}
	}
	require.Positive(t, limited)

	// 其他路由不受 /auth 的按 IP 限速影响
	w := doJSON(t, env.api, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := doJSON(t, env.api, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, env.admin, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
