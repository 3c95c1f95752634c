package persistence

import (
	"context"
	"errors"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
	"github.com/khoahotran/tag-service/pkg/logger"
)

const tagColumns = "id, name, s3_bucket, created_at, updated_at"

var psqlTag = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresTagRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresTagRepo(db *pgxpool.Pool, logger logger.Logger) tag.Repository {
	return &postgresTagRepo{db: db, logger: logger}
}

func scanTag(row pgx.Row, identifier string) (*tag.Tag, error) {
	t := &tag.Tag{}
	err := row.Scan(&t.ID, &t.Name, &t.BucketRef, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("tag", identifier)
		}
		return nil, apperror.NewInternal("failed to scan tag row", err)
	}
	return t, nil
}

func (r *postgresTagRepo) FindByName(ctx context.Context, name string) (*tag.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE name = $1 ORDER BY id LIMIT 1`
	return scanTag(r.db.QueryRow(ctx, query, name), name)
}

func (r *postgresTagRepo) FindByID(ctx context.Context, id int64) (*tag.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE id = $1`
	return scanTag(r.db.QueryRow(ctx, query, id), strconv.FormatInt(id, 10))
}

// Insert serializes inserts of the same name on a transaction scoped advisory
// lock, then checks and inserts. Renames do not take the lock.
func (r *postgresTagRepo) Insert(ctx context.Context, t *tag.Tag) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperror.NewInternal("failed to begin tag insert", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Warn("Tag insert rollback failed", zap.Error(err))
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, t.Name); err != nil {
		return apperror.NewInternal("failed to lock tag name", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tags WHERE name = $1)`, t.Name).Scan(&exists); err != nil {
		return apperror.NewInternal("failed to check tag name", err)
	}
	if exists {
		return apperror.NewConflict("tag", "name", t.Name)
	}

	query := `
		INSERT INTO tags (name, s3_bucket)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query, t.Name, t.BucketRef).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("tag", "bucket", t.Bucket())
		}
		return apperror.NewInternal("failed to insert tag", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit tag insert", err)
	}
	return nil
}

// Update writes the name only; the bucket reference is immutable.
func (r *postgresTagRepo) Update(ctx context.Context, t *tag.Tag) error {
	query := `UPDATE tags SET name = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`
	err := r.db.QueryRow(ctx, query, t.ID, t.Name).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFound("tag", strconv.FormatInt(t.ID, 10))
		}
		return apperror.NewInternal("failed to update tag", err)
	}
	return nil
}

func (r *postgresTagRepo) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return apperror.NewInternal("failed to delete tag", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("tag", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *postgresTagRepo) ListAll(ctx context.Context) ([]*tag.Tag, error) {
	sql, args, err := psqlTag.Select(tagColumns).
		From("tags").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list tags query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query tags", err)
	}
	defer rows.Close()

	tags := make([]*tag.Tag, 0)
	for rows.Next() {
		t, err := scanTag(rows, "")
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating tags", err)
	}
	return tags, nil
}

func (r *postgresTagRepo) ListBucketRefs(ctx context.Context) ([]string, error) {
	sql, args, err := psqlTag.Select("s3_bucket").
		From("tags").
		Where(sq.NotEq{"s3_bucket": nil}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build bucket refs query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query bucket refs", err)
	}
	refs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperror.NewInternal("failed to scan bucket refs", err)
	}
	return refs, nil
}
