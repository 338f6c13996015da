package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"gorm.io/gorm"

	"sekisan/internal/config"
	"sekisan/internal/db"
	"sekisan/internal/quantity"
	"sekisan/models"
)

// takeoff lines end with a unit token and a decimal quantity, the item name
// is everything before them and may contain spaces.
var takeoffLinePattern = regexp.MustCompile(`^(.+?)[\s　]+(\S{1,6})[\s　]+([-+]?\d+(?:\.\d+)?)$`)

type takeoffRecord struct {
	Name     string
	Unit     string
	Quantity string
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: import_estimate <takeoff.pdf> <table name>")
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2]); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(pdfPath, tableName string) error {
	if strings.TrimSpace(pdfPath) == "" {
		return fmt.Errorf("pdf path must not be empty")
	}
	if strings.TrimSpace(tableName) == "" {
		return fmt.Errorf("table name must not be empty")
	}

	if _, err := os.Stat(pdfPath); err != nil {
		return fmt.Errorf("locate pdf: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}

	text, err := extractTextFromPDF(data)
	if err != nil {
		return fmt.Errorf("extract pdf text: %w", err)
	}

	records := parseTakeoffLines(text)
	if len(records) == 0 {
		return errors.New("no takeoff lines recognized in pdf")
	}

	ownerID, err := resolveImportOwner(database)
	if err != nil {
		return fmt.Errorf("resolve owner: %w", err)
	}

	table, err := resolveTargetTable(database, ownerID, tableName)
	if err != nil {
		return fmt.Errorf("resolve table: %w", err)
	}

	group, err := resolveImportGroup(database, table.ID, filepath.Base(pdfPath))
	if err != nil {
		return fmt.Errorf("resolve group: %w", err)
	}

	imported := 0
	skipped := 0
	for idx, record := range records {
		item, fieldErrors := buildQuantityItem(record)
		if len(fieldErrors) > 0 {
			fmt.Fprintf(os.Stderr, "line %d (%s): skipped: %s\n", idx+1, record.Name, describeFieldErrors(fieldErrors))
			skipped++
			continue
		}

		if err := database.Transaction(func(tx *gorm.DB) error {
			return upsertQuantityItem(tx, group.ID, item)
		}); err != nil {
			return fmt.Errorf("line %d (%s): %w", idx+1, record.Name, err)
		}
		imported++
	}

	fmt.Fprintf(os.Stdout, "Imported %d quantity items into %q (%d skipped) from %s\n",
		imported, table.Name, skipped, filepath.Base(pdfPath))
	return nil
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func parseTakeoffLines(text string) []takeoffRecord {
	var records []takeoffRecord
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		match := takeoffLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		records = append(records, takeoffRecord{
			Name:     strings.TrimSpace(match[1]),
			Unit:     match[2],
			Quantity: match[3],
		})
	}
	return records
}

// buildQuantityItem routes the parsed values through the calculation engine
// so imported rows obey the same normalization and validation as manual
// entry.
func buildQuantityItem(record takeoffRecord) (*quantity.Item, quantity.FieldErrors) {
	item := quantity.NewItem()
	item.UpdateField(quantity.FieldName, record.Name)
	item.UpdateField(quantity.FieldUnit, record.Unit)
	item.UpdateField(quantity.FieldQuantity, record.Quantity)

	if errs := item.Errors(); errs.HasBlocking() {
		return nil, errs
	}
	return item, nil
}

func describeFieldErrors(fieldErrors quantity.FieldErrors) string {
	parts := make([]string, 0, len(fieldErrors))
	for field, kind := range fieldErrors {
		parts = append(parts, fmt.Sprintf("%s=%s", field, kind))
	}
	return strings.Join(parts, ", ")
}

func resolveImportOwner(database *gorm.DB) (uint, error) {
	if database == nil {
		return 0, fmt.Errorf("database handle is nil")
	}

	ctx := context.Background()
	email := strings.TrimSpace(os.Getenv("SEKISAN_IMPORT_OWNER_EMAIL"))
	if email != "" {
		var user models.User
		if err := database.WithContext(ctx).Where("lower(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
			return 0, fmt.Errorf("find owner by email %q: %w", strings.ToLower(email), err)
		}
		return user.ID, nil
	}

	var user models.User
	if err := database.WithContext(ctx).Order("id asc").First(&user).Error; err != nil {
		return 0, fmt.Errorf("find default owner: %w", err)
	}
	return user.ID, nil
}

// resolveTargetTable finds the named table among the owner's projects,
// creating it under the owner's first project when absent.
func resolveTargetTable(database *gorm.DB, ownerID uint, tableName string) (models.QuantityTable, error) {
	ctx := context.Background()
	name := strings.TrimSpace(tableName)

	var table models.QuantityTable
	err := database.WithContext(ctx).
		Joins("JOIN projects ON projects.id = quantity_tables.project_id").
		Where("projects.owner_id = ? AND quantity_tables.name = ?", ownerID, name).
		First(&table).Error
	if err == nil {
		return table, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.QuantityTable{}, err
	}

	var project models.Project
	if err := database.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id asc").
		First(&project).Error; err != nil {
		return models.QuantityTable{}, fmt.Errorf("find project for new table: %w", err)
	}

	table = models.QuantityTable{ProjectID: project.ID, Name: name}
	if err := database.WithContext(ctx).Create(&table).Error; err != nil {
		return models.QuantityTable{}, fmt.Errorf("create table %q: %w", name, err)
	}
	return table, nil
}

func resolveImportGroup(database *gorm.DB, tableID uint, title string) (models.QuantityGroup, error) {
	ctx := context.Background()

	var group models.QuantityGroup
	err := database.WithContext(ctx).
		Where("quantity_table_id = ? AND title = ?", tableID, title).
		First(&group).Error
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.QuantityGroup{}, err
	}

	group = models.QuantityGroup{QuantityTableID: tableID, Title: title}
	if err := database.WithContext(ctx).Create(&group).Error; err != nil {
		return models.QuantityGroup{}, fmt.Errorf("create group %q: %w", title, err)
	}
	return group, nil
}

// upsertQuantityItem matches existing rows by name within the group so a
// re-import refreshes quantities instead of duplicating lines.
func upsertQuantityItem(tx *gorm.DB, groupID uint, item *quantity.Item) error {
	snapshot := item.Snapshot()

	var existing models.QuantityItem
	err := tx.Where("quantity_group_id = ? AND name = ?", groupID, snapshot.Name).
		First(&existing).Error
	switch {
	case err == nil:
		existing.ApplyEngineSnapshot(snapshot)
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("update quantity item %q: %w", snapshot.Name, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := models.QuantityItem{QuantityGroupID: groupID}
		row.ApplyEngineSnapshot(snapshot)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("create quantity item %q: %w", snapshot.Name, err)
		}
	default:
		return fmt.Errorf("find quantity item %q: %w", snapshot.Name, err)
	}
	return nil
}
