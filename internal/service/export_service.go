package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"work-placement/internal/domain"
	"work-placement/internal/placement"
)

var ErrExportGenerateFail = errors.New("generate xlsx failed")

const exportSheet = "Students"

var exportHeader = []string{"No.", "Name", "School", "Phone", "Program Year", "Score", "Status", "Job", "Company", "Applied At"}

// ExportService 导出学生录取情况为 Excel (.xlsx)
type ExportService interface {
	ExportStudents(ctx context.Context, q placement.StudentQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	store  domain.Store
	logger *zap.Logger
}

func NewExportService(store domain.Store, logger *zap.Logger) ExportService {
	return &exportService{store: store, logger: logger}
}

// ExportStudents 一行一个学生，申请取有效申请或最近一条；无申请的学生状态列为 "none"
func (s *exportService) ExportStudents(ctx context.Context, q placement.StudentQuery) (*bytes.Buffer, string, error) {
	if !q.Match.Valid() {
		return nil, "", domain.Invalid("match", "must be matched or unmatched")
	}
	users, jobs, apps, err := loadAll(ctx, s.store)
	if err != nil {
		return nil, "", err
	}
	rows := placement.FilterStudents(users, apps, q)
	jobByID := make(map[string]domain.Job, len(jobs))
	for _, j := range jobs {
		jobByID[j.ID] = j
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#38BDF8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	for i, h := range exportHeader {
		_ = f.SetCellValue(exportSheet, cell(colName(i), 1), h)
	}
	_ = f.SetCellStyle(exportSheet, "A1", cell(colName(len(exportHeader)-1), 1), headerStyle)
	_ = f.SetColWidth(exportSheet, "A", "A", 6)
	_ = f.SetColWidth(exportSheet, "B", "D", 18)
	_ = f.SetColWidth(exportSheet, "H", "I", 26)
	_ = f.SetColWidth(exportSheet, "J", "J", 20)

	for i, r := range rows {
		line := i + 2
		seq := ""
		if r.SequenceNumber > 0 {
			seq = fmt.Sprint(r.SequenceNumber)
		}
		status, title, company, applied := "none", "", "", ""
		if a := r.Application; a != nil {
			status = string(a.Status)
			applied = a.Date.Format("2006-01-02 15:04")
			if j, ok := jobByID[a.JobID]; ok {
				title, company = j.Title, j.CompanyName
			} else {
				s.logger.Warn("application references missing record",
					zap.String("application_id", a.ID), zap.String("missing", "job"), zap.String("ref_id", a.JobID))
			}
		}
		values := []any{seq, r.Name, r.School, r.Phone, r.ProgramYear, r.Score, status, title, company, applied}
		if err := f.SetSheetRow(exportSheet, cell("A", line), &values); err != nil {
			s.logger.Error("写入 Excel 行失败", zap.Error(err))
			return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}
	name := "students"
	if q.ProgramYear != "" {
		name += "_" + q.ProgramYear
	}
	if q.Match != placement.MatchAll {
		name += "_" + string(q.Match)
	}
	return buf, name + ".xlsx", nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
