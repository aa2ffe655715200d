package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

// EmployeesStore defines the database methods needed by the employee
// handlers. Satisfied by *database.Queries.
type EmployeesStore interface {
	ListEmployees(ctx context.Context) ([]database.Employee, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (database.Employee, error)
	CreateEmployee(ctx context.Context, arg database.CreateEmployeeParams) (database.Employee, error)
	UpdateEmployee(ctx context.Context, arg database.UpdateEmployeeParams) (database.Employee, error)
	SoftDeleteEmployee(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// EmployeesHandler handles employee management endpoints.
type EmployeesHandler struct {
	store EmployeesStore
}

// NewEmployeesHandler creates a new EmployeesHandler.
func NewEmployeesHandler(store EmployeesStore) *EmployeesHandler {
	return &EmployeesHandler{store: store}
}

// RegisterRoutes registers employee endpoints on the given Chi router.
func (h *EmployeesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.List)
	r.Get("/employees/{id}", h.Get)
	r.Post("/employees", h.Create)
	r.Put("/employees/{id}", h.Update)
	r.Delete("/employees/{id}", h.Delete)
}

// --- Request / Response types ---

type createEmployeeRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type updateEmployeeRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type employeeResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
	Role     string    `json:"role"`
	IsActive bool      `json:"isActive"`
}

func toEmployeeResponse(e database.Employee) employeeResponse {
	return employeeResponse{
		ID:       e.ID,
		Email:    e.Email,
		FullName: e.FullName,
		Role:     e.Role,
		IsActive: e.IsActive,
	}
}

func validRole(role string) bool {
	switch role {
	case enum.RoleManager, enum.RoleCashier, enum.RoleKitchen:
		return true
	}
	return false
}

// --- Handlers ---

// List handles GET /api/employees.
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		log.Printf("ERROR: list employees: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]employeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = toEmployeeResponse(e)
	}
	respondOK(w, http.StatusOK, envelope{"employees": resp})
}

// Get handles GET /api/employees/{id}.
func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	employee, err := h.store.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "employee not found")
			return
		}
		log.Printf("ERROR: get employee: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondOK(w, http.StatusOK, envelope{"employee": toEmployeeResponse(employee)})
}

// Create handles POST /api/employees.
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.FullName == "" {
		respondError(w, http.StatusBadRequest, "email and fullName are required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if !validRole(req.Role) {
		respondError(w, http.StatusBadRequest, "invalid role")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: hash password: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	employee, err := h.store.CreateEmployee(r.Context(), database.CreateEmployeeParams{
		Email:          req.Email,
		HashedPassword: string(hashed),
		FullName:       req.FullName,
		Role:           req.Role,
	})
	if err != nil {
		if database.IsUniqueViolation(err, "employees_email_key") {
			respondError(w, http.StatusBadRequest, "email already in use")
			return
		}
		log.Printf("ERROR: create employee: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondOK(w, http.StatusCreated, envelope{"employee": toEmployeeResponse(employee)})
}

// Update handles PUT /api/employees/{id}.
func (h *EmployeesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var req updateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.FullName == "" {
		respondError(w, http.StatusBadRequest, "email and fullName are required")
		return
	}
	if !validRole(req.Role) {
		respondError(w, http.StatusBadRequest, "invalid role")
		return
	}

	employee, err := h.store.UpdateEmployee(r.Context(), database.UpdateEmployeeParams{
		ID:       id,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "employee not found")
			return
		}
		if database.IsUniqueViolation(err, "employees_email_key") {
			respondError(w, http.StatusBadRequest, "email already in use")
			return
		}
		log.Printf("ERROR: update employee: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondOK(w, http.StatusOK, envelope{"employee": toEmployeeResponse(employee)})
}

// Delete handles DELETE /api/employees/{id}. Rows are deactivated, not
// removed, so order history keeps its employee references.
func (h *EmployeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	deleted, err := h.store.SoftDeleteEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "employee not found")
			return
		}
		log.Printf("ERROR: delete employee: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondOK(w, http.StatusOK, envelope{"deleted": deleted})
}
