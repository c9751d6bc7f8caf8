// Package exportsvc writes the console lists to spreadsheets.
package exportsvc

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/teacher"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultSheet = "Sheet1"
)

func Students(students []student.Student) (*bytes.Buffer, error) {
	headers := []string{"ID", "Nome", "Matrícula", "Ano Atual", "Turno"}
	rows := make([][]interface{}, len(students))
	for i, s := range students {
		rows[i] = []interface{}{s.ID, s.Name, s.Enrollment, s.CurrentYear, s.Shift}
	}
	return write("Alunos", headers, rows)
}

func Teachers(teachers []teacher.Teacher) (*bytes.Buffer, error) {
	headers := []string{"ID", "Registro", "Nome", "Departamento", "Email", "Matérias"}
	rows := make([][]interface{}, len(teachers))
	for i, t := range teachers {
		rows[i] = []interface{}{t.ID, t.Registry, t.Name, t.Department, t.Email, t.SubjectNames()}
	}
	return write("Professores", headers, rows)
}

func write(sheet string, headers []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, errors.Wrap(err, "naming sheet")
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, errors.Wrapf(err, "writing header %s", header)
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, errors.Wrapf(err, "writing cell %s", cell)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf, nil
}
