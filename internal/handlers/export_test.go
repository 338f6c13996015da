package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportQuantityTable(t *testing.T) {
	f := setupQuantityTest(t)
	table := f.createTable(t, "基礎工事数量表")
	group := f.createGroup(t, table.ID, "根切り")
	f.createItem(t, table.ID, group.ID, map[string]string{
		"name":            "機械掘削",
		"unit":            "m3",
		"calculationMode": "AREA_VOLUME",
		"width":           "10",
		"depth":           "5",
		"height":          "2",
	})

	w := f.do(t, http.MethodGet, fmt.Sprintf("/app/api/quantity-tables/%d/export", table.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("expected attachment disposition, got %q", cd)
	}

	book, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer book.Close()

	if idx, err := book.GetSheetIndex("根切り"); err != nil || idx < 0 {
		t.Fatalf("expected sheet named after group, idx=%d err=%v", idx, err)
	}

	header, err := book.GetCellValue("根切り", "A1")
	if err != nil || header != "大分類" {
		t.Fatalf("unexpected header cell %q err=%v", header, err)
	}
	name, err := book.GetCellValue("根切り", "F2")
	if err != nil || name != "機械掘削" {
		t.Fatalf("unexpected name cell %q err=%v", name, err)
	}
	qty, err := book.GetCellValue("根切り", "S2")
	if err != nil || qty != "100.00" {
		t.Fatalf("unexpected quantity cell %q err=%v", qty, err)
	}
	// blank dimensions stay empty rather than zero
	pitch, err := book.GetCellValue("根切り", "P2")
	if err != nil || pitch != "" {
		t.Fatalf("expected empty pitch cell, got %q err=%v", pitch, err)
	}
}

func TestExportQuantityTableNotFound(t *testing.T) {
	f := setupQuantityTest(t)
	w := f.do(t, http.MethodGet, "/app/api/quantity-tables/424242/export", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
