package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	applog "sekisan/internal/log"
	"sekisan/internal/quantity"
	"sekisan/models"
)

type quantityItemRequest struct {
	Fields    map[string]string `json:"fields"`
	SortOrder *int              `json:"sort_order"`
}

type quantityItemResponse struct {
	ID              uint              `json:"id"`
	QuantityGroupID uint              `json:"quantity_group_id"`
	SortOrder       int               `json:"sort_order"`
	Fields          map[string]string `json:"fields"`
	Quantity        string            `json:"quantity"`
	Errors          map[string]string `json:"errors,omitempty"`
	Warnings        map[string]string `json:"warnings,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// fieldApplyOrder fixes the order in which payload fields reach the engine:
// the calculation mode first, so numeric edits recompute under the mode the
// client was editing in.
var fieldApplyOrder = []quantity.Field{
	quantity.FieldCalculationMode,
	quantity.FieldMajorCategory,
	quantity.FieldMiddleCategory,
	quantity.FieldMinorCategory,
	quantity.FieldOptionalCategory,
	quantity.FieldWorkType,
	quantity.FieldName,
	quantity.FieldSpecification,
	quantity.FieldUnit,
	quantity.FieldRemarks,
	quantity.FieldWidth,
	quantity.FieldDepth,
	quantity.FieldHeight,
	quantity.FieldRangeLength,
	quantity.FieldEdge1,
	quantity.FieldEdge2,
	quantity.FieldPitchLength,
	quantity.FieldQuantity,
	quantity.FieldAdjustmentCoefficient,
	quantity.FieldRoundingUnit,
}

func routeQuantityItems(w http.ResponseWriter, r *http.Request, tableID, groupID uint, segments []string) {
	if _, ok := loadQuantityGroup(w, r, tableID, groupID); !ok {
		return
	}

	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listQuantityItems(w, r, groupID)
		case http.MethodPost:
			createQuantityItem(w, r, groupID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	itemID, ok := parseID(segments[0])
	if !ok || len(segments) > 1 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showQuantityItem(w, r, groupID, itemID)
	case http.MethodPut:
		updateQuantityItem(w, r, groupID, itemID)
	case http.MethodDelete:
		deleteQuantityItem(w, r, groupID, itemID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listQuantityItems(w http.ResponseWriter, r *http.Request, groupID uint) {
	ctx := r.Context()
	var items []models.QuantityItem
	if err := database.WithContext(ctx).
		Where("quantity_group_id = ?", groupID).
		Order("sort_order asc, id asc").
		Find(&items).Error; err != nil {
		applog.Error(ctx, "failed to list quantity items", "error", err, "group", groupID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load quantity items")
		return
	}

	responses := make([]quantityItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, quantityItemProjection(item))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showQuantityItem(w http.ResponseWriter, r *http.Request, groupID, itemID uint) {
	item, ok := loadQuantityItem(w, r, groupID, itemID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, quantityItemProjection(item))
}

// createQuantityItem routes every payload field through the engine. A fresh
// item starts in STANDARD mode with coefficient 1.00, rounding unit 0.01 and
// quantity 0.00; any blocking validation error rejects the write before a
// row is created.
func createQuantityItem(w http.ResponseWriter, r *http.Request, groupID uint) {
	ctx := r.Context()
	var payload quantityItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid quantity item payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	engineItem := quantity.NewItem()
	applyItemFields(engineItem, payload.Fields)

	if engineItem.Errors().HasBlocking() {
		applog.Debug(ctx, "quantity item rejected by validation", "group", groupID,
			"errors", len(engineItem.Errors()))
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": fieldErrorStrings(engineItem.Errors()),
		})
		return
	}

	item := models.QuantityItem{QuantityGroupID: groupID}
	item.ApplyEngineSnapshot(engineItem.Snapshot())
	if payload.SortOrder != nil {
		item.SortOrder = *payload.SortOrder
	}

	if err := database.WithContext(ctx).Create(&item).Error; err != nil {
		applog.Error(ctx, "failed to create quantity item", "error", err, "group", groupID)
		writeJSONError(w, http.StatusBadRequest, "unable to create quantity item")
		return
	}

	writeJSON(w, http.StatusCreated, quantityItemProjectionWith(item, engineItem))
}

// updateQuantityItem rebuilds the stored row in the engine, replays the
// payload edits on top of it, and persists the normalized snapshot only when
// no blocking error remains.
func updateQuantityItem(w http.ResponseWriter, r *http.Request, groupID, itemID uint) {
	ctx := r.Context()
	item, ok := loadQuantityItem(w, r, groupID, itemID)
	if !ok {
		return
	}

	var payload quantityItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid quantity item payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	engineItem := quantity.FromSnapshot(item.EngineSnapshot())
	applyItemFields(engineItem, payload.Fields)

	if engineItem.Errors().HasBlocking() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": fieldErrorStrings(engineItem.Errors()),
		})
		return
	}

	item.ApplyEngineSnapshot(engineItem.Snapshot())
	if payload.SortOrder != nil {
		item.SortOrder = *payload.SortOrder
	}

	if err := database.WithContext(ctx).Save(&item).Error; err != nil {
		applog.Error(ctx, "failed to update quantity item", "error", err, "id", itemID)
		writeJSONError(w, http.StatusBadRequest, "unable to update quantity item")
		return
	}

	writeJSON(w, http.StatusOK, quantityItemProjectionWith(item, engineItem))
}

func deleteQuantityItem(w http.ResponseWriter, r *http.Request, groupID, itemID uint) {
	ctx := r.Context()
	if _, ok := loadQuantityItem(w, r, groupID, itemID); !ok {
		return
	}
	if err := database.WithContext(ctx).Delete(&models.QuantityItem{}, itemID).Error; err != nil {
		applog.Error(ctx, "failed to delete quantity item", "error", err, "id", itemID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete quantity item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func loadQuantityItem(w http.ResponseWriter, r *http.Request, groupID, itemID uint) (models.QuantityItem, bool) {
	ctx := r.Context()
	var item models.QuantityItem
	err := database.WithContext(ctx).
		Where("quantity_group_id = ?", groupID).
		First(&item, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return models.QuantityItem{}, false
		}
		applog.Error(ctx, "failed to load quantity item", "error", err, "id", itemID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load quantity item")
		return models.QuantityItem{}, false
	}
	return item, true
}

func applyItemFields(engineItem *quantity.Item, fields map[string]string) {
	for _, field := range fieldApplyOrder {
		if raw, present := fields[string(field)]; present {
			engineItem.UpdateField(field, raw)
		}
	}
}

func quantityItemProjection(item models.QuantityItem) quantityItemResponse {
	return quantityItemProjectionWith(item, quantity.FromSnapshot(item.EngineSnapshot()))
}

func quantityItemProjectionWith(item models.QuantityItem, engineItem *quantity.Item) quantityItemResponse {
	snapshot := engineItem.Snapshot()
	fields := map[string]string{
		string(quantity.FieldMajorCategory):         snapshot.MajorCategory,
		string(quantity.FieldMiddleCategory):        snapshot.MiddleCategory,
		string(quantity.FieldMinorCategory):         snapshot.MinorCategory,
		string(quantity.FieldOptionalCategory):      snapshot.OptionalCategory,
		string(quantity.FieldWorkType):              snapshot.WorkType,
		string(quantity.FieldName):                  snapshot.Name,
		string(quantity.FieldSpecification):         snapshot.Specification,
		string(quantity.FieldUnit):                  snapshot.Unit,
		string(quantity.FieldRemarks):               snapshot.Remarks,
		string(quantity.FieldCalculationMode):       string(snapshot.Mode),
		string(quantity.FieldQuantity):              snapshot.EnteredQuantity.Format(),
		string(quantity.FieldAdjustmentCoefficient): snapshot.Coefficient.Format(),
		string(quantity.FieldRoundingUnit):          snapshot.RoundingUnit.Format(),
		string(quantity.FieldWidth):                 snapshot.Dimensions.Width.Format(),
		string(quantity.FieldDepth):                 snapshot.Dimensions.Depth.Format(),
		string(quantity.FieldHeight):                snapshot.Dimensions.Height.Format(),
		string(quantity.FieldRangeLength):           snapshot.Dimensions.RangeLength.Format(),
		string(quantity.FieldEdge1):                 snapshot.Dimensions.Edge1.Format(),
		string(quantity.FieldEdge2):                 snapshot.Dimensions.Edge2.Format(),
		string(quantity.FieldPitchLength):           snapshot.Dimensions.PitchLength.Format(),
	}

	return quantityItemResponse{
		ID:              item.ID,
		QuantityGroupID: item.QuantityGroupID,
		SortOrder:       item.SortOrder,
		Fields:          fields,
		Quantity:        snapshot.Quantity.Format(),
		Errors:          fieldErrorStrings(engineItem.Errors()),
		Warnings:        fieldErrorStrings(engineItem.Warnings()),
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}
