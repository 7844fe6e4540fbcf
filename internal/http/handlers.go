package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"bankdg/internal/core"
	"bankdg/internal/services"
	"bankdg/internal/session"
)

type loginRequest struct {
	Username string `json:"usuario"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de solicitud inválido.")
		return
	}
	user, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.auth.Logout()
	writeJSON(w, http.StatusOK, nil)
}

type registerRequest struct {
	Username        string `json:"usuario"`
	Email           string `json:"email"`
	Phone           string `json:"telefono"`
	IDType          string `json:"tipoIdentificacion"`
	IDNumber        string `json:"numeroIdentificacion"`
	BirthDate       string `json:"fechaNacimiento"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmarPassword"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de solicitud inválido.")
		return
	}
	reg := session.Registration{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		IDType:   req.IDType,
		IDNumber: req.IDNumber,
		Password: req.Password,
	}
	if ts, err := time.Parse("2006-01-02", req.BirthDate); err == nil {
		reg.BirthDate = ts
	}
	err := reg.Validate(time.Now())
	if req.ConfirmPassword != req.Password {
		err = errors.Join(err, errors.New("las contraseñas no coinciden"))
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"usuario": reg.Username})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Overview(r.Context()))
}

func (s *Server) handleAccountList(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleAccountView(w http.ResponseWriter, r *http.Request) {
	view, err := s.accounts.View(r.Context(), r.PathValue("id"), criteriaFromQuery(r), pageFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCardList(w http.ResponseWriter, r *http.Request) {
	cards, err := s.cards.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCardView(w http.ResponseWriter, r *http.Request) {
	view, err := s.cards.View(r.Context(), r.PathValue("id"), criteriaFromQuery(r), pageFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCardOTP(w http.ResponseWriter, r *http.Request) {
	if err := s.cards.RequestOTP(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type cardDetailsRequest struct {
	OTP string `json:"otp"`
}

func (s *Server) handleCardDetails(w http.ResponseWriter, r *http.Request) {
	var req cardDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de solicitud inválido.")
		return
	}
	secrets, err := s.cards.Reveal(r.Context(), r.PathValue("id"), req.OTP)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, secrets)
}

type transferRequest struct {
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId"`
	ToIBAN        string          `json:"toIban"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Formato de solicitud inválido.")
		return
	}

	user, err := s.session.User()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Sesión expirada. Inicie sesión nuevamente.")
		return
	}

	receipt, err := s.transfers.Send(r.Context(), services.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		ToIBAN:        req.ToIBAN,
		Amount:        req.Amount,
		Description:   req.Description,
		UserID:        user.ID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func criteriaFromQuery(r *http.Request) core.Criteria {
	q := r.URL.Query()
	return core.Criteria{
		Search:    q.Get("search"),
		TypeLabel: q.Get("type"),
		Range:     core.DateRange(q.Get("range")),
	}
}

func pageFromQuery(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
