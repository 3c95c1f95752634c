package tag

import (
	"context"
	"strconv"

	"github.com/khoahotran/tag-service/internal/application/service"
	"github.com/khoahotran/tag-service/pkg/apperror"
)

func idLockKey(id int64) string {
	return "tag:id:" + strconv.FormatInt(id, 10)
}

func nameLockKey(name string) string {
	return "tag:name:" + name
}

func acquire(ctx context.Context, locker service.Locker, key string) (func(), error) {
	unlock, err := locker.Lock(ctx, key)
	if err != nil {
		return nil, apperror.NewInternal("failed to acquire lock "+key, err)
	}
	return unlock, nil
}
