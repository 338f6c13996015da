package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	applog "sekisan/internal/log"
	"sekisan/models"
)

type quantityGroupRequest struct {
	Title         string `json:"title"`
	SortOrder     *int   `json:"sort_order"`
	SurveyPhotoID *uint  `json:"survey_photo_id"`
}

func routeQuantityGroups(w http.ResponseWriter, r *http.Request, userID, tableID uint, segments []string) {
	if _, ok := loadQuantityTable(w, r, userID, tableID, false); !ok {
		return
	}

	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listQuantityGroups(w, r, tableID)
		case http.MethodPost:
			createQuantityGroup(w, r, tableID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	groupID, ok := parseID(segments[0])
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(segments) == 1:
		switch r.Method {
		case http.MethodPut:
			updateQuantityGroup(w, r, tableID, groupID)
		case http.MethodDelete:
			deleteQuantityGroup(w, r, tableID, groupID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case segments[1] == "items":
		routeQuantityItems(w, r, tableID, groupID, segments[2:])
	default:
		http.NotFound(w, r)
	}
}

func listQuantityGroups(w http.ResponseWriter, r *http.Request, tableID uint) {
	ctx := r.Context()
	var groups []models.QuantityGroup
	if err := database.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		Where("quantity_table_id = ?", tableID).
		Order("sort_order asc, id asc").
		Find(&groups).Error; err != nil {
		applog.Error(ctx, "failed to list quantity groups", "error", err, "table", tableID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load quantity groups")
		return
	}

	responses := make([]quantityGroupResponse, 0, len(groups))
	for _, group := range groups {
		groupResponse := quantityGroupResponse{
			ID:            group.ID,
			Title:         group.Title,
			SortOrder:     group.SortOrder,
			SurveyPhotoID: group.SurveyPhotoID,
		}
		for _, item := range group.Items {
			groupResponse.Items = append(groupResponse.Items, quantityItemProjection(item))
		}
		responses = append(responses, groupResponse)
	}
	writeJSON(w, http.StatusOK, responses)
}

func createQuantityGroup(w http.ResponseWriter, r *http.Request, tableID uint) {
	ctx := r.Context()
	var payload quantityGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid quantity group payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	group := models.QuantityGroup{
		QuantityTableID: tableID,
		Title:           strings.TrimSpace(payload.Title),
		SurveyPhotoID:   payload.SurveyPhotoID,
	}
	if payload.SortOrder != nil {
		group.SortOrder = *payload.SortOrder
	}
	if err := database.WithContext(ctx).Create(&group).Error; err != nil {
		applog.Error(ctx, "failed to create quantity group", "error", err, "table", tableID)
		writeJSONError(w, http.StatusBadRequest, "unable to create quantity group")
		return
	}

	writeJSON(w, http.StatusCreated, quantityGroupResponse{
		ID:            group.ID,
		Title:         group.Title,
		SortOrder:     group.SortOrder,
		SurveyPhotoID: group.SurveyPhotoID,
	})
}

func updateQuantityGroup(w http.ResponseWriter, r *http.Request, tableID, groupID uint) {
	ctx := r.Context()
	group, ok := loadQuantityGroup(w, r, tableID, groupID)
	if !ok {
		return
	}

	var payload quantityGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updates := map[string]any{
		"title":           strings.TrimSpace(payload.Title),
		"survey_photo_id": payload.SurveyPhotoID,
	}
	if payload.SortOrder != nil {
		updates["sort_order"] = *payload.SortOrder
	}
	if err := database.WithContext(ctx).Model(&group).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update quantity group", "error", err, "id", groupID)
		writeJSONError(w, http.StatusBadRequest, "unable to update quantity group")
		return
	}

	reloaded, ok := loadQuantityGroup(w, r, tableID, groupID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, quantityGroupResponse{
		ID:            reloaded.ID,
		Title:         reloaded.Title,
		SortOrder:     reloaded.SortOrder,
		SurveyPhotoID: reloaded.SurveyPhotoID,
	})
}

// deleteQuantityGroup cascades: a group owns its items.
func deleteQuantityGroup(w http.ResponseWriter, r *http.Request, tableID, groupID uint) {
	ctx := r.Context()
	if _, ok := loadQuantityGroup(w, r, tableID, groupID); !ok {
		return
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quantity_group_id = ?", groupID).
			Delete(&models.QuantityItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.QuantityGroup{}, groupID).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete quantity group", "error", err, "id", groupID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete quantity group")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func loadQuantityGroup(w http.ResponseWriter, r *http.Request, tableID, groupID uint) (models.QuantityGroup, bool) {
	ctx := r.Context()
	var group models.QuantityGroup
	err := database.WithContext(ctx).
		Where("quantity_table_id = ?", tableID).
		First(&group, groupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return models.QuantityGroup{}, false
		}
		applog.Error(ctx, "failed to load quantity group", "error", err, "id", groupID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load quantity group")
		return models.QuantityGroup{}, false
	}
	return group, true
}
