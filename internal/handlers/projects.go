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

type projectRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
	ClientID *uint  `json:"client_id"`
}

type projectResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	ClientID  *uint     `json:"client_id,omitempty"`
	Client    string    `json:"client,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectResource handles CRUD interactions for construction projects.
func ProjectResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/app/api/projects")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listProjects(w, r, userID)
		case http.MethodPost:
			createProject(w, r, userID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid project identifier", "identifier", path, "error", err)
		http.NotFound(w, r)
		return
	}
	projectID := uint(idValue)

	switch r.Method {
	case http.MethodGet:
		showProject(w, r, userID, projectID)
	case http.MethodPut:
		updateProject(w, r, userID, projectID)
	case http.MethodDelete:
		deleteProject(w, r, userID, projectID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listProjects(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()
	var projects []models.Project
	if err := database.WithContext(ctx).
		Preload("Client").
		Where("owner_id = ?", userID).
		Order("id asc").
		Find(&projects).Error; err != nil {
		applog.Error(ctx, "failed to list projects", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load projects")
		return
	}

	responses := make([]projectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, projectProjection(project))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showProject(w http.ResponseWriter, r *http.Request, userID, projectID uint) {
	project, ok := loadProject(w, r, userID, projectID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectProjection(project))
}

func createProject(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()
	var payload projectRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid project create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	project := models.Project{
		Name:     strings.TrimSpace(payload.Name),
		Code:     strings.TrimSpace(payload.Code),
		Address:  strings.TrimSpace(payload.Address),
		Notes:    payload.Notes,
		ClientID: payload.ClientID,
		OwnerID:  userID,
	}
	if err := database.WithContext(ctx).Create(&project).Error; err != nil {
		applog.Error(ctx, "failed to create project", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create project")
		return
	}

	writeJSON(w, http.StatusCreated, projectProjection(project))
}

func updateProject(w http.ResponseWriter, r *http.Request, userID, projectID uint) {
	ctx := r.Context()
	project, ok := loadProject(w, r, userID, projectID)
	if !ok {
		return
	}

	var payload projectRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid project update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	updates := map[string]any{
		"name":      strings.TrimSpace(payload.Name),
		"code":      strings.TrimSpace(payload.Code),
		"address":   strings.TrimSpace(payload.Address),
		"notes":     payload.Notes,
		"client_id": payload.ClientID,
	}
	if err := database.WithContext(ctx).Model(&project).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update project", "error", err, "id", projectID)
		writeJSONError(w, http.StatusBadRequest, "unable to update project")
		return
	}

	reloaded, ok := loadProject(w, r, userID, projectID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectProjection(reloaded))
}

func deleteProject(w http.ResponseWriter, r *http.Request, userID, projectID uint) {
	ctx := r.Context()
	if _, ok := loadProject(w, r, userID, projectID); !ok {
		return
	}
	if err := database.WithContext(ctx).Delete(&models.Project{}, projectID).Error; err != nil {
		applog.Error(ctx, "failed to delete project", "error", err, "id", projectID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func loadProject(w http.ResponseWriter, r *http.Request, userID, projectID uint) (models.Project, bool) {
	ctx := r.Context()
	var project models.Project
	err := database.WithContext(ctx).
		Preload("Client").
		Where("owner_id = ?", userID).
		First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return models.Project{}, false
		}
		applog.Error(ctx, "failed to load project", "error", err, "id", projectID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load project")
		return models.Project{}, false
	}
	return project, true
}

func projectProjection(project models.Project) projectResponse {
	response := projectResponse{
		ID:        project.ID,
		Name:      project.Name,
		Code:      project.Code,
		Address:   project.Address,
		Notes:     project.Notes,
		ClientID:  project.ClientID,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
	if project.Client != nil {
		response.Client = project.Client.Name
	}
	return response
}
