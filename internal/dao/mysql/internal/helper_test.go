package internal

import (
	"errors"
	"fmt"
	"testing"

	"carematch_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", gorm.ErrRecordNotFound, errorx.CodeNotFound},
		{"duplicate email", fmt.Errorf("insert user_info: %w", gorm.ErrDuplicatedKey), errorx.CodeConflict},
		{"other", errors.New("deadlock"), errorx.CodeDBError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapDBErrorf(tt.err, "user id=%d", 3)
			assert.Equal(t, tt.code, errorx.GetCode(err))
			assert.True(t, errors.Is(err, tt.err))
		})
	}

	assert.NoError(t, WrapDBError(nil, "noop"))

	var codeErr *errorx.CodeError
	assert.True(t, errors.As(WrapDBError(gorm.ErrDuplicatedKey, "创建用户"), &codeErr))
	assert.Equal(t, DuplicateMsg, codeErr.Msg)
}
