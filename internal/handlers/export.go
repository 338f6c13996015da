package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/xuri/excelize/v2"

	applog "sekisan/internal/log"
	"sekisan/internal/quantity"
)

var exportHeader = []interface{}{
	"大分類",
	"中分類",
	"小分類",
	"任意分類",
	"工種",
	"名称",
	"規格",
	"単位",
	"計算方法",
	"幅",
	"奥行",
	"高さ",
	"範囲長",
	"端部1",
	"端部2",
	"ピッチ",
	"補正係数",
	"丸め単位",
	"数量",
	"備考",
}

// exportQuantityTable streams the table as an .xlsx workbook with one sheet
// per group. Blank dimensions export as empty cells, not zeros.
func exportQuantityTable(w http.ResponseWriter, r *http.Request, userID, tableID uint) {
	ctx := r.Context()
	table, ok := loadQuantityTable(w, r, userID, tableID, true)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, group := range table.Groups {
		name := group.Title
		if name == "" {
			name = fmt.Sprintf("グループ%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(sheet, name); err != nil {
				name = sheet
			}
		} else if _, err := f.NewSheet(name); err != nil {
			applog.Error(ctx, "failed to add export sheet", "error", err, "table", tableID)
			writeJSONError(w, http.StatusInternalServerError, "unable to export quantity table")
			return
		}

		if err := f.SetSheetRow(name, "A1", &exportHeader); err != nil {
			applog.Error(ctx, "failed to write export header", "error", err, "table", tableID)
			writeJSONError(w, http.StatusInternalServerError, "unable to export quantity table")
			return
		}

		for rowIdx, item := range group.Items {
			engineItem := quantity.FromSnapshot(item.EngineSnapshot())
			snapshot := engineItem.Snapshot()
			excelRow := []interface{}{
				snapshot.MajorCategory,
				snapshot.MiddleCategory,
				snapshot.MinorCategory,
				snapshot.OptionalCategory,
				snapshot.WorkType,
				snapshot.Name,
				snapshot.Specification,
				snapshot.Unit,
				string(snapshot.Mode),
				snapshot.Dimensions.Width.Format(),
				snapshot.Dimensions.Depth.Format(),
				snapshot.Dimensions.Height.Format(),
				snapshot.Dimensions.RangeLength.Format(),
				snapshot.Dimensions.Edge1.Format(),
				snapshot.Dimensions.Edge2.Format(),
				snapshot.Dimensions.PitchLength.Format(),
				snapshot.Coefficient.Format(),
				snapshot.RoundingUnit.Format(),
				snapshot.Quantity.Format(),
				snapshot.Remarks,
			}
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				applog.Error(ctx, "failed to address export cell", "error", err, "table", tableID)
				writeJSONError(w, http.StatusInternalServerError, "unable to export quantity table")
				return
			}
			if err := f.SetSheetRow(name, cell, &excelRow); err != nil {
				applog.Error(ctx, "failed to write export row", "error", err, "table", tableID)
				writeJSONError(w, http.StatusInternalServerError, "unable to export quantity table")
				return
			}
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		applog.Error(ctx, "failed to serialize export workbook", "error", err, "table", tableID)
		writeJSONError(w, http.StatusInternalServerError, "unable to export quantity table")
		return
	}

	fileName := fmt.Sprintf("%s_%s.xlsx", table.Name, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(fileName)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		applog.Debug(ctx, "export response aborted", "error", err, "table", tableID)
	}
}
