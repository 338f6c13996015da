package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sekisan/models"
)

func TestProjectResourceRequiresSession(t *testing.T) {
	_, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t, &models.User{}, &models.TradingPartner{}, &models.Project{})
	t.Cleanup(dbCleanup)

	req := httptest.NewRequest(http.MethodGet, "/app/api/projects", nil)
	w := httptest.NewRecorder()
	ProjectResource(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}
}

func TestProjectLifecycle(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t, &models.User{}, &models.TradingPartner{}, &models.Project{})
	t.Cleanup(dbCleanup)

	owner := models.User{Email: "owner@example.com", PasswordHash: "hash"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}
	client := models.TradingPartner{Name: "山田建材", Kana: "やまだけんざい", OwnerID: owner.ID}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	// create
	req := jsonRequest(t, http.MethodPost, "/app/api/projects", projectRequest{
		Name:     "市民会館改修工事",
		Code:     "PJ-2026-014",
		Address:  "東京都千代田区1-1",
		ClientID: &client.ID,
	})
	req = authenticateRequest(t, sm, req, owner.ID)
	w := httptest.NewRecorder()
	ProjectResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created projectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Name != "市民会館改修工事" || created.Code != "PJ-2026-014" {
		t.Fatalf("unexpected created project: %+v", created)
	}

	// show resolves the client name
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/app/api/projects/%d", created.ID), nil)
	req = authenticateRequest(t, sm, req, owner.ID)
	w = httptest.NewRecorder()
	ProjectResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var shown projectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &shown); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if shown.Client != "山田建材" {
		t.Fatalf("expected client name resolved, got %+v", shown)
	}

	// update
	req = jsonRequest(t, http.MethodPut, fmt.Sprintf("/app/api/projects/%d", created.ID), projectRequest{
		Name: "市民会館改修工事(第二期)",
		Code: "PJ-2026-014",
	})
	req = authenticateRequest(t, sm, req, owner.ID)
	w = httptest.NewRecorder()
	ProjectResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d: %s", w.Code, w.Body.String())
	}
	var updated projectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if updated.Name != "市民会館改修工事(第二期)" {
		t.Fatalf("expected renamed project, got %+v", updated)
	}
	if updated.ClientID != nil {
		t.Fatalf("expected client cleared when omitted from update, got %+v", updated)
	}

	// list
	req = httptest.NewRequest(http.MethodGet, "/app/api/projects", nil)
	req = authenticateRequest(t, sm, req, owner.ID)
	w = httptest.NewRecorder()
	ProjectResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on list, got %d", w.Code)
	}
	var listed []projectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one project, got %d", len(listed))
	}

	// delete
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/app/api/projects/%d", created.ID), nil)
	req = authenticateRequest(t, sm, req, owner.ID)
	w = httptest.NewRecorder()
	ProjectResource(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", w.Code)
	}

	var count int64
	if err := db.Model(&models.Project{}).Count(&count).Error; err != nil || count != 0 {
		t.Fatalf("expected no projects left, count=%d err=%v", count, err)
	}
}

func TestProjectOwnershipScoping(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t, &models.User{}, &models.TradingPartner{}, &models.Project{})
	t.Cleanup(dbCleanup)

	owner := models.User{Email: "owner@example.com", PasswordHash: "hash"}
	other := models.User{Email: "other@example.com", PasswordHash: "hash"}
	for _, u := range []*models.User{&owner, &other} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}
	project := models.Project{Name: "倉庫新築工事", OwnerID: owner.ID}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/app/api/projects/%d", project.ID), nil)
	req = authenticateRequest(t, sm, req, other.ID)
	w := httptest.NewRecorder()
	ProjectResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-owner, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/app/api/projects", nil)
	req = authenticateRequest(t, sm, req, other.ID)
	w = httptest.NewRecorder()
	ProjectResource(w, req)
	var listed []projectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty list for non-owner, got %d entries", len(listed))
	}
}

func TestProjectValidation(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t, &models.User{}, &models.TradingPartner{}, &models.Project{})
	t.Cleanup(dbCleanup)

	owner := models.User{Email: "owner@example.com", PasswordHash: "hash"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}

	req := jsonRequest(t, http.MethodPost, "/app/api/projects", projectRequest{Name: "   "})
	req = authenticateRequest(t, sm, req, owner.ID)
	w := httptest.NewRecorder()
	ProjectResource(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/app/api/projects/not-a-number", nil)
	req = authenticateRequest(t, sm, req, owner.ID)
	w = httptest.NewRecorder()
	ProjectResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", w.Code)
	}
}
