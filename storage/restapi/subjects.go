package restapi

import (
	"context"

	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core/subject"
)

type subjectRepository struct {
	*Client
}

func NewSubjectRepository(c *Client) subject.Repository {
	return &subjectRepository{c}
}

func (repo *subjectRepository) QuerySubjects(ctx context.Context) ([]subject.Subject, error) {
	subjects := make([]subject.Subject, 0)
	if err := repo.do(ctx, rest.Get, repo.path("subjects"), nil, nil, &subjects); err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []subject.Subject{}
	}
	return subjects, nil
}
