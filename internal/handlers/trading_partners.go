package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "sekisan/internal/log"
	"sekisan/models"
)

type tradingPartnerRequest struct {
	Name     string `json:"name"`
	Kana     string `json:"kana"`
	Category string `json:"category"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

type tradingPartnerResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Kana      string    `json:"kana"`
	Category  string    `json:"category"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TradingPartnerResource handles CRUD interactions for trading partners.
// Listing supports a name/kana prefix filter via the q query parameter.
func TradingPartnerResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/app/api/trading-partners")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listTradingPartners(w, r, userID)
		case http.MethodPost:
			createTradingPartner(w, r, userID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	partnerID := uint(idValue)

	switch r.Method {
	case http.MethodGet:
		showTradingPartner(w, r, userID, partnerID)
	case http.MethodPut:
		updateTradingPartner(w, r, userID, partnerID)
	case http.MethodDelete:
		deleteTradingPartner(w, r, userID, partnerID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listTradingPartners(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()
	query := database.WithContext(ctx).
		Where("owner_id = ?", userID).
		Order("kana asc, name asc")

	if term := strings.TrimSpace(r.URL.Query().Get("q")); term != "" {
		pattern := term + "%"
		query = query.Where("name LIKE ? OR kana LIKE ?", pattern, pattern)
	}

	var partners []models.TradingPartner
	if err := query.Find(&partners).Error; err != nil {
		applog.Error(ctx, "failed to list trading partners", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load trading partners")
		return
	}

	responses := make([]tradingPartnerResponse, 0, len(partners))
	for _, partner := range partners {
		responses = append(responses, tradingPartnerProjection(partner))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showTradingPartner(w http.ResponseWriter, r *http.Request, userID, partnerID uint) {
	partner, ok := loadTradingPartner(w, r, userID, partnerID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tradingPartnerProjection(partner))
}

func createTradingPartner(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()
	var payload tradingPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid trading partner payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	partner := models.TradingPartner{
		Name:     strings.TrimSpace(payload.Name),
		Kana:     strings.TrimSpace(payload.Kana),
		Category: strings.TrimSpace(payload.Category),
		Phone:    strings.TrimSpace(payload.Phone),
		Email:    strings.TrimSpace(payload.Email),
		Address:  strings.TrimSpace(payload.Address),
		Notes:    payload.Notes,
		OwnerID:  userID,
	}
	if err := database.WithContext(ctx).Create(&partner).Error; err != nil {
		applog.Error(ctx, "failed to create trading partner", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create trading partner")
		return
	}

	writeJSON(w, http.StatusCreated, tradingPartnerProjection(partner))
}

func updateTradingPartner(w http.ResponseWriter, r *http.Request, userID, partnerID uint) {
	ctx := r.Context()
	partner, ok := loadTradingPartner(w, r, userID, partnerID)
	if !ok {
		return
	}

	var payload tradingPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	updates := map[string]any{
		"name":     strings.TrimSpace(payload.Name),
		"kana":     strings.TrimSpace(payload.Kana),
		"category": strings.TrimSpace(payload.Category),
		"phone":    strings.TrimSpace(payload.Phone),
		"email":    strings.TrimSpace(payload.Email),
		"address":  strings.TrimSpace(payload.Address),
		"notes":    payload.Notes,
	}
	if err := database.WithContext(ctx).Model(&partner).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update trading partner", "error", err, "id", partnerID)
		writeJSONError(w, http.StatusBadRequest, "unable to update trading partner")
		return
	}

	reloaded, ok := loadTradingPartner(w, r, userID, partnerID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tradingPartnerProjection(reloaded))
}

func deleteTradingPartner(w http.ResponseWriter, r *http.Request, userID, partnerID uint) {
	ctx := r.Context()
	if _, ok := loadTradingPartner(w, r, userID, partnerID); !ok {
		return
	}
	if err := database.WithContext(ctx).Delete(&models.TradingPartner{}, partnerID).Error; err != nil {
		applog.Error(ctx, "failed to delete trading partner", "error", err, "id", partnerID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete trading partner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func loadTradingPartner(w http.ResponseWriter, r *http.Request, userID, partnerID uint) (models.TradingPartner, bool) {
	ctx := r.Context()
	var partner models.TradingPartner
	err := database.WithContext(ctx).
		Where("owner_id = ?", userID).
		First(&partner, partnerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return models.TradingPartner{}, false
		}
		applog.Error(ctx, "failed to load trading partner", "error", err, "id", partnerID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load trading partner")
		return models.TradingPartner{}, false
	}
	return partner, true
}

func tradingPartnerProjection(partner models.TradingPartner) tradingPartnerResponse {
	return tradingPartnerResponse{
		ID:        partner.ID,
		Name:      partner.Name,
		Kana:      partner.Kana,
		Category:  partner.Category,
		Phone:     partner.Phone,
		Email:     partner.Email,
		Address:   partner.Address,
		Notes:     partner.Notes,
		CreatedAt: partner.CreatedAt,
		UpdatedAt: partner.UpdatedAt,
	}
}
