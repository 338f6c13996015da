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
	"sekisan/internal/quantity"
	"sekisan/models"
)

type quantityTableRequest struct {
	ProjectID uint   `json:"project_id"`
	Name      string `json:"name"`
}

type quantityTableResponse struct {
	ID        uint                    `json:"id"`
	ProjectID uint                    `json:"project_id"`
	Name      string                  `json:"name"`
	Groups    []quantityGroupResponse `json:"groups,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

type quantityGroupResponse struct {
	ID            uint                   `json:"id"`
	Title         string                 `json:"title"`
	SortOrder     int                    `json:"sort_order"`
	SurveyPhotoID *uint                  `json:"survey_photo_id,omitempty"`
	Items         []quantityItemResponse `json:"items,omitempty"`
}

type validateTableResponse struct {
	OK     bool                       `json:"ok"`
	Errors map[uint]map[string]string `json:"errors,omitempty"`
}

// QuantityTableResource routes every request under /app/api/quantity-tables,
// including the nested group and item resources and the validate/export
// operations.
func QuantityTableResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/app/api/quantity-tables")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listQuantityTables(w, r, userID)
		case http.MethodPost:
			createQuantityTable(w, r, userID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	segments := strings.Split(path, "/")
	tableID, ok := parseID(segments[0])
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(segments) == 1:
		switch r.Method {
		case http.MethodGet:
			showQuantityTable(w, r, userID, tableID)
		case http.MethodPut:
			updateQuantityTable(w, r, userID, tableID)
		case http.MethodDelete:
			deleteQuantityTable(w, r, userID, tableID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case len(segments) == 2 && segments[1] == "validate":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		validateQuantityTable(w, r, userID, tableID)
	case len(segments) == 2 && segments[1] == "export":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		exportQuantityTable(w, r, userID, tableID)
	case segments[1] == "groups":
		routeQuantityGroups(w, r, userID, tableID, segments[2:])
	default:
		http.NotFound(w, r)
	}
}

func parseID(segment string) (uint, bool) {
	value, err := strconv.ParseUint(segment, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(value), true
}

func listQuantityTables(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()

	projectParam := strings.TrimSpace(r.URL.Query().Get("project_id"))
	query := database.WithContext(ctx).
		Joins("JOIN projects ON projects.id = quantity_tables.project_id").
		Where("projects.owner_id = ?", userID).
		Order("quantity_tables.id asc")
	if projectParam != "" {
		if projectID, ok := parseID(projectParam); ok {
			query = query.Where("quantity_tables.project_id = ?", projectID)
		}
	}

	var tables []models.QuantityTable
	if err := query.Find(&tables).Error; err != nil {
		applog.Error(ctx, "failed to list quantity tables", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load quantity tables")
		return
	}

	responses := make([]quantityTableResponse, 0, len(tables))
	for _, table := range tables {
		responses = append(responses, quantityTableProjection(table, false))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createQuantityTable(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()
	var payload quantityTableRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid quantity table payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.ProjectID == 0 {
		writeJSONError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, ok := loadProject(w, r, userID, payload.ProjectID); !ok {
		return
	}

	table := models.QuantityTable{
		ProjectID: payload.ProjectID,
		Name:      strings.TrimSpace(payload.Name),
	}
	if err := database.WithContext(ctx).Create(&table).Error; err != nil {
		applog.Error(ctx, "failed to create quantity table", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create quantity table")
		return
	}

	writeJSON(w, http.StatusCreated, quantityTableProjection(table, false))
}

func showQuantityTable(w http.ResponseWriter, r *http.Request, userID, tableID uint) {
	table, ok := loadQuantityTable(w, r, userID, tableID, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, quantityTableProjection(table, true))
}

// updateQuantityTable serves the name autosave: the table name is the only
// mutable attribute and is committed independently of the items.
func updateQuantityTable(w http.ResponseWriter, r *http.Request, userID, tableID uint) {
	ctx := r.Context()
	table, ok := loadQuantityTable(w, r, userID, tableID, false)
	if !ok {
		return
	}

	var payload quantityTableRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := database.WithContext(ctx).Model(&table).Update("name", name).Error; err != nil {
		applog.Error(ctx, "failed to rename quantity table", "error", err, "id", tableID)
		writeJSONError(w, http.StatusBadRequest, "unable to rename quantity table")
		return
	}
	table.Name = name
	writeJSON(w, http.StatusOK, quantityTableProjection(table, false))
}

func deleteQuantityTable(w http.ResponseWriter, r *http.Request, userID, tableID uint) {
	ctx := r.Context()
	if _, ok := loadQuantityTable(w, r, userID, tableID, false); !ok {
		return
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var groupIDs []uint
		if err := tx.Model(&models.QuantityGroup{}).
			Where("quantity_table_id = ?", tableID).
			Pluck("id", &groupIDs).Error; err != nil {
			return err
		}
		if len(groupIDs) > 0 {
			if err := tx.Where("quantity_group_id IN ?", groupIDs).
				Delete(&models.QuantityItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quantity_table_id = ?", tableID).
			Delete(&models.QuantityGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.QuantityTable{}, tableID).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete quantity table", "error", err, "id", tableID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete quantity table")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateQuantityTable is the save gate: it rebuilds every item in the
// engine and reports per-item blocking errors. A clean result is the only
// state in which the client may dispatch its save.
func validateQuantityTable(w http.ResponseWriter, r *http.Request, userID, tableID uint) {
	table, ok := loadQuantityTable(w, r, userID, tableID, true)
	if !ok {
		return
	}

	engineTable := engineTableFromModel(table)
	failed := engineTable.ValidateAll()
	if len(failed) == 0 {
		writeJSON(w, http.StatusOK, validateTableResponse{OK: true})
		return
	}

	errorsByItem := make(map[uint]map[string]string, len(failed))
	for itemID, fieldErrors := range failed {
		errorsByItem[itemID] = fieldErrorStrings(fieldErrors)
	}
	applog.Debug(r.Context(), "quantity table failed validation",
		"table", tableID, "failingItems", len(failed))
	writeJSON(w, http.StatusUnprocessableEntity, validateTableResponse{OK: false, Errors: errorsByItem})
}

func loadQuantityTable(w http.ResponseWriter, r *http.Request, userID, tableID uint, withItems bool) (models.QuantityTable, bool) {
	ctx := r.Context()
	query := database.WithContext(ctx)
	if withItems {
		query = query.
			Preload("Groups", func(db *gorm.DB) *gorm.DB {
				return db.Order("sort_order asc, id asc")
			}).
			Preload("Groups.Items", func(db *gorm.DB) *gorm.DB {
				return db.Order("sort_order asc, id asc")
			})
	}

	var table models.QuantityTable
	if err := query.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return models.QuantityTable{}, false
		}
		applog.Error(ctx, "failed to load quantity table", "error", err, "id", tableID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load quantity table")
		return models.QuantityTable{}, false
	}

	if _, ok := loadProject(w, r, userID, table.ProjectID); !ok {
		return models.QuantityTable{}, false
	}
	return table, true
}

func engineTableFromModel(table models.QuantityTable) *quantity.Table {
	engineTable := &quantity.Table{ID: table.ID, Name: table.Name}
	for _, group := range table.Groups {
		engineGroup := &quantity.Group{ID: group.ID, PhotoID: group.SurveyPhotoID}
		for _, item := range group.Items {
			engineGroup.Items = append(engineGroup.Items, quantity.FromSnapshot(item.EngineSnapshot()))
		}
		engineTable.Groups = append(engineTable.Groups, engineGroup)
	}
	return engineTable
}

func fieldErrorStrings(fieldErrors quantity.FieldErrors) map[string]string {
	out := make(map[string]string, len(fieldErrors))
	for field, kind := range fieldErrors {
		out[string(field)] = string(kind)
	}
	return out
}

func quantityTableProjection(table models.QuantityTable, withItems bool) quantityTableResponse {
	response := quantityTableResponse{
		ID:        table.ID,
		ProjectID: table.ProjectID,
		Name:      table.Name,
		CreatedAt: table.CreatedAt,
		UpdatedAt: table.UpdatedAt,
	}
	if !withItems {
		return response
	}
	for _, group := range table.Groups {
		groupResponse := quantityGroupResponse{
			ID:            group.ID,
			Title:         group.Title,
			SortOrder:     group.SortOrder,
			SurveyPhotoID: group.SurveyPhotoID,
		}
		for _, item := range group.Items {
			groupResponse.Items = append(groupResponse.Items, quantityItemProjection(item))
		}
		response.Groups = append(response.Groups, groupResponse)
	}
	return response
}
