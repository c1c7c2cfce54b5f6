package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/utils"
)

// RegisterRequest is the flat JSON body of POST /register. Which optional
// fields are required depends on Role.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Contact  string `json:"contact"`

	NationalID   string `json:"national_id"`
	Address      string `json:"address"`
	AnnualIncome *int64 `json:"annual_income"`
	WorkCategory string `json:"work_category"`
	State        string `json:"state"`
	District     string `json:"district"`
	DateOfBirth  string `json:"date_of_birth"`

	CompanySector  string `json:"company_sector"`
	CompanyAddress string `json:"company_address"`
}

// Registration converts the request into the profile variant for its role.
// An empty role registers a regular account.
func (req RegisterRequest) Registration() (account.Registration, error) {
	reg := account.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Contact:  req.Contact,
	}

	role := account.RoleRegular
	if strings.TrimSpace(req.Role) != "" {
		r, err := account.ParseRole(req.Role)
		if err != nil {
			return reg, err
		}
		role = r
	}

	switch role {
	case account.RoleRegular:
		p := &account.RegularProfile{
			NationalID:   req.NationalID,
			Address:      req.Address,
			AnnualIncome: req.AnnualIncome,
			WorkCategory: req.WorkCategory,
			State:        req.State,
			District:     req.District,
		}
		if s := strings.TrimSpace(req.DateOfBirth); s != "" {
			dob, err := time.Parse(account.DateLayout, s)
			if err != nil {
				return reg, apperr.Validation("date_of_birth", "must be a date formatted YYYY-MM-DD")
			}
			p.DateOfBirth = dob
		}
		reg.Profile = p
	case account.RoleJobProvider:
		reg.Profile = &account.JobProviderProfile{
			CompanySector:  req.CompanySector,
			CompanyAddress: req.CompanyAddress,
		}
	case account.RoleCSCOperator:
		reg.Profile = &account.OperatorProfile{}
	case account.RoleAdmin:
		reg.Profile = &account.AdminProfile{}
	}
	return reg, nil
}

// Handlers serves the /api/auth endpoints.
type Handlers struct {
	svc *Service
	log *slog.Logger
}

// NewHandlers creates Handlers.
func NewHandlers(svc *Service, logger *slog.Logger) *Handlers {
	return &Handlers{svc: svc, log: logger}
}

func (h *Handlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}

	reg, err := req.Registration()
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}

	sess, err := h.svc.Register(r.Context(), reg)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, sess)
}

func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var c Credentials
	if err := utils.DecodeJSON(w, r, &c); err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}

	sess, err := h.svc.Login(r.Context(), c)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := utils.ClaimsFromContext(r.Context())
	if err := h.svc.Logout(r.Context(), claims); err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *Handlers) MeHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, h.log, apperr.ErrUnauthorized)
		return
	}

	view, err := h.svc.Me(r.Context(), accountID)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}
