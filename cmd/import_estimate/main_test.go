package main

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sekisan/internal/quantity"
	"sekisan/models"
)

func TestParseTakeoffLines(t *testing.T) {
	t.Parallel()

	text := "土工事 数量拾い書\n" +
		"床付け m2 120.50\n" +
		"残土処分 m3 35\n" +
		"山留 H鋼建込 本 24\n" +
		"小計\n" +
		"合計 180.50\n"

	records := parseTakeoffLines(text)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}
	if records[0].Name != "床付け" || records[0].Unit != "m2" || records[0].Quantity != "120.50" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[2].Name != "山留 H鋼建込" || records[2].Unit != "本" {
		t.Fatalf("expected multi-word name preserved, got %+v", records[2])
	}
}

func TestBuildQuantityItemNormalizes(t *testing.T) {
	t.Parallel()

	item, fieldErrors := buildQuantityItem(takeoffRecord{Name: "床付け", Unit: "m2", Quantity: "120.5"})
	if len(fieldErrors) != 0 {
		t.Fatalf("expected no errors, got %v", fieldErrors)
	}
	if got := item.Quantity().Format(); got != "120.50" {
		t.Fatalf("expected quantity 120.50, got %q", got)
	}

	_, fieldErrors = buildQuantityItem(takeoffRecord{Name: "", Unit: "m2", Quantity: "1"})
	if fieldErrors[quantity.FieldName] != quantity.ErrRequired {
		t.Fatalf("expected required name error, got %v", fieldErrors)
	}
}

func TestUpsertQuantityItemRefreshesExistingRows(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&models.QuantityItem{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	first, _ := buildQuantityItem(takeoffRecord{Name: "床付け", Unit: "m2", Quantity: "100"})
	if err := upsertQuantityItem(db, 1, first); err != nil {
		t.Fatalf("initial upsert failed: %v", err)
	}

	second, _ := buildQuantityItem(takeoffRecord{Name: "床付け", Unit: "m2", Quantity: "150"})
	if err := upsertQuantityItem(db, 1, second); err != nil {
		t.Fatalf("refresh upsert failed: %v", err)
	}

	var rows []models.QuantityItem
	if err := db.Where("quantity_group_id = ?", 1).Find(&rows).Error; err != nil {
		t.Fatalf("failed to load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected a single row after re-import, got %d", len(rows))
	}
	if rows[0].QuantityUnits != 15000 {
		t.Fatalf("expected refreshed quantity units 15000, got %d", rows[0].QuantityUnits)
	}
}
