package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/teacher"
)

var (
	confirmFunc = promptConfirm // mockable

	errHelp        = errors.New("help provided")
	errNotTerminal = errors.New("stdin is not a terminal: pass -yes to confirm")
)

type commandLine struct {
	students   student.Repository
	teachers   teacher.Repository
	subjects   subject.Repository
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  students [-year YEAR] [-shift M|T|N] - list students")
	fmt.Fprintln(cli.out, "  teachers [-department DEPARTMENT]   - list teachers")
	fmt.Fprintln(cli.out, "  subjects                            - list subjects")
	fmt.Fprintln(cli.out, "  delete-student -id ID [-yes]        - delete a student")
	fmt.Fprintln(cli.out, "  delete-teacher -id ID [-yes]        - delete a teacher")
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "students":
		cmd := cli.flagSet("students")
		year := cmd.String("year", "", "Only students in this year.")
		shift := cmd.String("shift", "", "Only students in this shift (M, T or N).")
		if err := cli.parse(cmd, args[2:]); err != nil {
			return err
		}
		return cli.listStudents(ctx, student.Filter{CurrentYear: *year, Shift: *shift})

	case "teachers":
		cmd := cli.flagSet("teachers")
		department := cmd.String("department", "", "Only teachers whose department contains this text.")
		if err := cli.parse(cmd, args[2:]); err != nil {
			return err
		}
		return cli.listTeachers(ctx, teacher.Filter{Department: *department})

	case "subjects":
		return cli.listSubjects(ctx)

	case "delete-student", "delete-teacher":
		cmd := cli.flagSet(args[1])
		id := cmd.String("id", "", "The record's ID.")
		yes := cmd.Bool("yes", false, "Do not ask for confirmation.")
		if err := cli.parse(cmd, args[2:]); err != nil {
			return err
		}
		if strings.TrimSpace(*id) == "" {
			cmd.Usage()
			return errHelp
		}
		if args[1] == "delete-student" {
			return cli.deleteStudent(ctx, *id, *yes)
		}
		return cli.deleteTeacher(ctx, *id, *yes)

	default:
		cli.printUsage()
		return errHelp
	}
}

// promptConfirm asks on the terminal; anything but "s" or "sim" is a no.
func promptConfirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errNotTerminal
	}
	fmt.Printf("%s Confirmar? [s/N] ", prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "sim":
		return true, nil
	}
	return false, nil
}
