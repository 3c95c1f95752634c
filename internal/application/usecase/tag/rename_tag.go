package tag

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
	"github.com/khoahotran/tag-service/pkg/logger"
)

type RenameTagUseCase struct {
	tagRepo tag.Repository
	locker  service.Locker
	logger  logger.Logger
}

func NewRenameTagUseCase(r tag.Repository, l service.Locker, log logger.Logger) *RenameTagUseCase {
	return &RenameTagUseCase{tagRepo: r, locker: l, logger: log}
}

type RenameTagInput struct {
	ID   int64
	Name string
}

type RenameTagOutput struct {
	Tag *tag.Tag
}

// Execute overwrites the name. Uniqueness is only guaranteed at creation, so
// renaming onto an existing name is accepted.
func (uc *RenameTagUseCase) Execute(ctx context.Context, input RenameTagInput) (*RenameTagOutput, error) {
	ctx, span := tracer.Start(ctx, "RenameTag")
	defer span.End()
	span.SetAttributes(attribute.Int64("tag.id", input.ID))

	name := tag.NormalizeName(input.Name)
	if err := tag.ValidateName(name); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	unlock, err := acquire(ctx, uc.locker, idLockKey(input.ID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, err := uc.tagRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	oldName := t.Name
	t.Name = name
	if err := uc.tagRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	uc.logger.Info("Tag renamed", zap.Int64("tag_id", t.ID), zap.String("from", oldName), zap.String("to", name))
	return &RenameTagOutput{Tag: t}, nil
}
