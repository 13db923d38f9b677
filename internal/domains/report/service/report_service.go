package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	borrowRepo "gcmn-library-backend/internal/domains/borrow/repository"
	"gcmn-library-backend/internal/domains/report/model"
	"gcmn-library-backend/internal/domains/report/repository"
)

type ServiceInterface interface {
	GetStats(ctx context.Context) (*model.Stats, error)

	// ExportBorrows renders the full borrow ledger as an XLSX workbook.
	ExportBorrows(ctx context.Context) ([]byte, error)
}

type reportService struct {
	repo    repository.RepositoryInterface
	borrows borrowRepo.RepositoryInterface
}

func NewReportService(repo repository.RepositoryInterface, borrows borrowRepo.RepositoryInterface) ServiceInterface {
	return &reportService{repo: repo, borrows: borrows}
}

func (s *reportService) GetStats(ctx context.Context) (*model.Stats, error) {
	return s.repo.GetStats(ctx)
}

var borrowExportHeader = []string{
	"Book", "Borrower", "Email", "Phone", "Card Number",
	"Borrow Date", "Due Date", "Return Date", "Status",
}

func (s *reportService) ExportBorrows(ctx context.Context) ([]byte, error) {
	records, err := s.borrows.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Borrows"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range borrowExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	const dateLayout = "2006-01-02"
	for i, rec := range records {
		phone := ""
		if rec.BorrowerPhone != nil {
			phone = *rec.BorrowerPhone
		}
		card := ""
		if rec.CardNumber != nil {
			card = *rec.CardNumber
		}
		returned := ""
		if rec.ReturnDate != nil {
			returned = rec.ReturnDate.Format(dateLayout)
		}

		values := []any{
			rec.BookName, rec.BorrowerName, rec.BorrowerEmail, phone, card,
			rec.BorrowDate.Format(dateLayout), rec.DueDate.Format(dateLayout),
			returned, string(rec.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
