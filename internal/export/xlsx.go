// Package export writes feedback history to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/errors"
	"github.com/felixgeelhaar/feedfort/internal/ux"
)

// SheetName is the single worksheet of an export
const SheetName = "Feedbacks"

// leadingColumns come before the attribute columns; Descrição closes the row
var leadingColumns = []string{"ID", "Data/Hora", "Tipo Feedback", "Setor", "Funcionário", "Autor"}

const descriptionColumn = "Descrição"

// Headers returns the header row for feedbacks: the fixed columns, the
// sorted union of every rated attribute, then the description
func Headers(feedbacks []domain.Feedback) []string {
	attrs := attributeUnion(feedbacks)
	headers := make([]string, 0, len(leadingColumns)+len(attrs)+1)
	headers = append(headers, leadingColumns...)
	headers = append(headers, attrs...)
	return append(headers, descriptionColumn)
}

func attributeUnion(feedbacks []domain.Feedback) []string {
	seen := map[string]bool{}
	for _, f := range feedbacks {
		for name := range f.Avaliacoes {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// row lays out one feedback under headers. Unrated attributes are left
// blank; final experiência details land in the description column.
func row(f domain.Feedback, attrs []string) []any {
	when := f.DataFeedback
	if t, ok := f.Time(); ok {
		when = t.Format(domain.DisplayDateTimeLayout)
	}

	cells := []any{
		f.ID,
		when,
		f.Tipo.Title(),
		ux.PlainText(f.SetorNome),
		ux.PlainText(f.FuncionarioNome),
		ux.PlainText(f.AutorUsername),
	}
	for _, name := range attrs {
		if v, ok := f.Avaliacoes[name]; ok {
			cells = append(cells, v)
		} else {
			cells = append(cells, nil)
		}
	}
	return append(cells, description(f))
}

func description(f domain.Feedback) string {
	text := ux.PlainText(f.Descricao)
	if f.Detalhes != "" {
		if text != "" {
			text += "\n"
		}
		text += ux.PlainText(f.Detalhes)
	}
	if f.RecomendaEfetivacao != nil {
		answer := "Não"
		if *f.RecomendaEfetivacao {
			answer = "Sim"
		}
		if text != "" {
			text += "\n"
		}
		text += "Recomenda efetivação: " + answer
	}
	return text
}

// Build lays feedbacks out as a workbook. The caller closes it.
func Build(feedbacks []domain.Feedback) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	headers := Headers(feedbacks)
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		_ = f.Close()
		return nil, err
	}

	attrs := headers[len(leadingColumns) : len(headers)-1]
	for i, fb := range feedbacks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		cells := row(fb, attrs)
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if err := decorate(f, len(headers), len(feedbacks)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// decorate styles the header and freezes it above the data
func decorate(f *excelize.File, columns, rows int) error {
	last, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last+"1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", last, 18); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, last, last, 60); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	if rows == 0 {
		return nil
	}
	return f.AutoFilter(SheetName, fmt.Sprintf("A1:%s%d", last, rows+1), nil)
}

// Write streams the workbook for feedbacks to w
func Write(w io.Writer, feedbacks []domain.Feedback) error {
	f, err := Build(feedbacks)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "Erro ao gerar planilha", err)
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "Erro ao gerar planilha", err)
	}
	return nil
}

// WriteFile saves the workbook for feedbacks at path, creating parent
// directories as needed
func WriteFile(path string, feedbacks []domain.Feedback) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeDirectoryFailed, "Erro ao criar diretório "+dir, err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "Erro ao criar arquivo "+path, err)
	}
	if err := Write(out, feedbacks); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "Erro ao salvar arquivo "+path, err)
	}
	return nil
}
