package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/teacher"
)

func (cli *commandLine) table() *tabwriter.Writer {
	return tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
}

func (cli *commandLine) listStudents(ctx context.Context, filter student.Filter) error {
	if err := filter.Validate(cli.validate); err != nil {
		return errors.New(core.TranslateFirst(err, cli.translator))
	}
	students, err := cli.students.QueryStudents(ctx, filter)
	if err != nil {
		return err
	}

	w := cli.table()
	fmt.Fprintln(w, "ID\tNOME\tMATRÍCULA\tANO\tTURNO")
	for _, s := range students {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.Name, s.Enrollment, s.CurrentYear, s.Shift)
	}
	return w.Flush()
}

func (cli *commandLine) listTeachers(ctx context.Context, filter teacher.Filter) error {
	filter.Clean()
	teachers, err := cli.teachers.QueryTeachers(ctx, filter)
	if err != nil {
		return err
	}

	w := cli.table()
	fmt.Fprintln(w, "ID\tNOME\tDEPARTAMENTO\tEMAIL\tMATÉRIAS")
	for _, t := range teachers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Department, t.Email, t.SubjectNames())
	}
	return w.Flush()
}

func (cli *commandLine) listSubjects(ctx context.Context) error {
	subjects, err := cli.subjects.QuerySubjects(ctx)
	if err != nil {
		return err
	}

	w := cli.table()
	fmt.Fprintln(w, "ID\tNOME\tANO\tCRÉDITOS")
	for _, s := range subjects {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", s.ID, s.Name, s.Year, s.Credits)
	}
	return w.Flush()
}

func (cli *commandLine) deleteStudent(ctx context.Context, id string, yes bool) error {
	if !yes {
		ok, err := confirmFunc("Excluir o aluno " + id + "?")
		if err != nil || !ok {
			return err
		}
	}
	if err := cli.students.DeleteStudent(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Aluno excluído com sucesso!")
	return nil
}

func (cli *commandLine) deleteTeacher(ctx context.Context, id string, yes bool) error {
	if !yes {
		ok, err := confirmFunc("Excluir o professor " + id + "?")
		if err != nil || !ok {
			return err
		}
	}
	if err := cli.teachers.DeleteTeacher(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Professor excluído com sucesso!")
	return nil
}
