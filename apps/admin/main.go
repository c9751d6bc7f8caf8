package main

import (
	"context"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/restapi"
)

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()
	logger := logsvc.NewConsole(conf.Debug).With().Str("app", "ADMIN").Logger()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	// start CLI
	client := restapi.NewClientFromConfig(conf)
	cli := commandLine{
		students:   restapi.NewStudentRepository(client),
		teachers:   restapi.NewTeacherRepository(client),
		subjects:   restapi.NewSubjectRepository(client),
		validate:   validate,
		translator: translator,
		out:        os.Stdout,
	}
	if err := cli.run(context.Background(), os.Args); err != nil {
		if err != errHelp {
			logger.Error().Err(err).Msg(core.UserMessage(err, "comando falhou"))
		}
		os.Exit(1)
	}
}
