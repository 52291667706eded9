package errors_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/agentstation/modcatalog/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "mod",
			ID:       "100",
		}
		assert.Equal(t, "mod with ID 100 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("group", "1001")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("mod.id", 0, "must not be zero")
		assert.Equal(t, "validation failed for field mod.id: must not be zero", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "unparseable identifier"}
		assert.Equal(t, "validation failed: unparseable identifier", err.Error())
	})
}

func TestWrappers(t *testing.T) {
	base := errors.New("disk full")

	tests := []struct {
		name    string
		wrap    func(error) error
		message string
	}{
		{"io", func(err error) error { return pkgerrors.WrapIO("write", "catalog_v2.yaml", err) }, "IO error during write of catalog_v2.yaml: disk full"},
		{"resource", func(err error) error { return pkgerrors.WrapResource("save", "catalog", "v2", err) }, "failed to save catalog v2: disk full"},
		{"parse", func(err error) error { return pkgerrors.WrapParse("yaml", "overrides.yaml", err) }, "parse error in yaml file overrides.yaml: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, tt.wrap(nil))
			err := tt.wrap(base)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}

	t.Run("unwrap chain", func(t *testing.T) {
		assert.ErrorIs(t, pkgerrors.WrapIO("read", "x", base), base)
		assert.ErrorIs(t, pkgerrors.WrapResource("load", "catalog", "", base), base)
	})
}

func TestUnavailable(t *testing.T) {
	err := pkgerrors.Unavailable(pkgerrors.NewIOError("open", "catalogs", errors.New("missing")))
	assert.True(t, pkgerrors.IsCatalogUnavailable(err))

	var ioErr *pkgerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "catalogs", ioErr.Path)

	assert.ErrorIs(t, pkgerrors.Unavailable(nil), pkgerrors.ErrCatalogUnavailable)
}

func TestTransitionError(t *testing.T) {
	err := &pkgerrors.TransitionError{From: "idle", To: "finalizing"}
	assert.Equal(t, "invalid transition idle -> finalizing", err.Error())
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidTransition)
}
