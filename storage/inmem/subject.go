package inmem

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/subject"
)

type subjectRepository struct {
	db *DB
}

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) QuerySubjects(ctx context.Context) ([]subject.Subject, error) {
	if err := repo.db.enter(ctx, OpQuerySubjects); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return subject.Clone(repo.db.subjects), nil
}

// linkSubject must be called with the write lock held.
func (db *DB) linkSubject(links map[string][]string, ownerID, subjectID string) error {
	if !subject.Contains(db.subjects, subjectID) {
		return errors.Wrapf(ErrNotFound, "subject %s", subjectID)
	}
	return link(links, ownerID, subjectID)
}
