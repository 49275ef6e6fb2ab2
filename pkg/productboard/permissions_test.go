package productboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLevel_Ordering(t *testing.T) {
	assert.True(t, AccessLevelAdmin.AtLeast(AccessLevelRead))
	assert.True(t, AccessLevelAdmin.AtLeast(AccessLevelDelete))
	assert.True(t, AccessLevelWrite.AtLeast(AccessLevelWrite))
	assert.False(t, AccessLevelRead.AtLeast(AccessLevelWrite))
	assert.False(t, AccessLevelDelete.AtLeast(AccessLevelAdmin))
}

func TestAccessLevel_String(t *testing.T) {
	assert.Equal(t, "read", AccessLevelRead.String())
	assert.Equal(t, "write", AccessLevelWrite.String())
	assert.Equal(t, "delete", AccessLevelDelete.String())
	assert.Equal(t, "admin", AccessLevelAdmin.String())
	assert.Equal(t, "access_level(42)", AccessLevel(42).String())
}

func TestParseAccessLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected AccessLevel
		wantErr  bool
	}{
		{"read", AccessLevelRead, false},
		{"write", AccessLevelWrite, false},
		{"delete", AccessLevelDelete, false},
		{"admin", AccessLevelAdmin, false},
		{" Admin ", AccessLevelAdmin, false},
		{"WRITE", AccessLevelWrite, false},
		{"owner", AccessLevelRead, true},
		{"", AccessLevelRead, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("input %q", tt.input), func(t *testing.T) {
			level, err := ParseAccessLevel(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownAccessLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestCallerPermissions_Has(t *testing.T) {
	caller := &CallerPermissions{
		Permissions: []Permission{"features:read", "notes:write"},
	}

	assert.True(t, caller.Has("features:read"))
	assert.False(t, caller.Has("features:write"))
}

func TestCheckPermissions(t *testing.T) {
	metadata := &OperationPermissionMetadata{
		RequiredPermissions: []Permission{"features:read"},
		MinimumAccessLevel:  AccessLevelRead,
	}

	t.Run("admissible caller", func(t *testing.T) {
		caller := &CallerPermissions{
			AccessLevel: AccessLevelRead,
			Permissions: []Permission{"features:read"},
		}

		require.NoError(t, CheckPermissions("list_features", caller, metadata))
	})

	t.Run("higher level satisfies a lower requirement", func(t *testing.T) {
		caller := &CallerPermissions{
			AccessLevel: AccessLevelAdmin,
			Permissions: []Permission{"features:read"},
		}

		require.NoError(t, CheckPermissions("list_features", caller, metadata))
	})

	t.Run("extra permissions do not compensate a level shortfall", func(t *testing.T) {
		writeMetadata := &OperationPermissionMetadata{
			RequiredPermissions: []Permission{"features:write"},
			MinimumAccessLevel:  AccessLevelWrite,
		}

		caller := &CallerPermissions{
			AccessLevel: AccessLevelRead,
			Permissions: []Permission{"features:write", "features:delete", "users:admin"},
		}

		err := CheckPermissions("create_feature", caller, writeMetadata)
		require.Error(t, err)

		permErr := &PermissionError{}
		require.ErrorAs(t, err, &permErr)
		assert.True(t, permErr.LevelShortfall())
		assert.Empty(t, permErr.Missing)
	})

	t.Run("a high level does not compensate missing permissions", func(t *testing.T) {
		caller := &CallerPermissions{
			AccessLevel: AccessLevelAdmin,
			Permissions: []Permission{"notes:read"},
		}

		err := CheckPermissions("list_features", caller, metadata)
		require.Error(t, err)

		permErr := &PermissionError{}
		require.ErrorAs(t, err, &permErr)
		assert.False(t, permErr.LevelShortfall())
		assert.Equal(t, []Permission{"features:read"}, permErr.Missing)
	})

	t.Run("nil metadata admits everyone", func(t *testing.T) {
		require.NoError(t, CheckPermissions("list_features", nil, nil))
	})

	t.Run("nil caller is treated as an unprivileged reader", func(t *testing.T) {
		err := CheckPermissions("list_features", nil, metadata)
		require.Error(t, err)

		permErr := &PermissionError{}
		require.ErrorAs(t, err, &permErr)
		assert.Equal(t, AccessLevelRead, permErr.CallerLevel)
		assert.Equal(t, []Permission{"features:read"}, permErr.Missing)
	})
}

func TestIsAdmissible(t *testing.T) {
	metadata := &OperationPermissionMetadata{
		RequiredPermissions: []Permission{"features:delete"},
		MinimumAccessLevel:  AccessLevelDelete,
	}

	assert.True(t, IsAdmissible(&CallerPermissions{
		AccessLevel: AccessLevelDelete,
		Permissions: []Permission{"features:delete"},
	}, metadata))

	assert.False(t, IsAdmissible(&CallerPermissions{
		AccessLevel: AccessLevelWrite,
		Permissions: []Permission{"features:delete"},
	}, metadata))
}

func TestMissingPermissions(t *testing.T) {
	t.Run("reports in declaration order and deduplicates", func(t *testing.T) {
		metadata := &OperationPermissionMetadata{
			RequiredPermissions: []Permission{
				"features:write", "notes:write", "features:write", "companies:read",
			},
		}

		caller := &CallerPermissions{Permissions: []Permission{"notes:write"}}

		missing := MissingPermissions(caller, metadata)
		assert.Equal(t, []Permission{"features:write", "companies:read"}, missing)
	})

	t.Run("empty when the subset check passes", func(t *testing.T) {
		metadata := &OperationPermissionMetadata{
			RequiredPermissions: []Permission{"features:read"},
		}

		caller := &CallerPermissions{Permissions: []Permission{"features:read"}}

		assert.Empty(t, MissingPermissions(caller, metadata))
	})

	t.Run("nil metadata", func(t *testing.T) {
		assert.Nil(t, MissingPermissions(&CallerPermissions{}, nil))
	})
}

func TestPermissionError_Error(t *testing.T) {
	t.Run("level shortfall only", func(t *testing.T) {
		err := &PermissionError{
			Operation:     "delete_feature",
			RequiredLevel: AccessLevelDelete,
			CallerLevel:   AccessLevelRead,
		}

		assert.Equal(t, `operation "delete_feature" denied: requires delete access, caller has read`, err.Error())
	})

	t.Run("missing permissions only", func(t *testing.T) {
		err := &PermissionError{
			Operation: "create_feature",
			Missing:   []Permission{"features:write"},
		}

		assert.Equal(t, `operation "create_feature" denied: missing permissions: features:write`, err.Error())
	})

	t.Run("both axes", func(t *testing.T) {
		err := &PermissionError{
			Operation:     "delete_user",
			RequiredLevel: AccessLevelAdmin,
			CallerLevel:   AccessLevelWrite,
			Missing:       []Permission{"users:admin"},
		}

		assert.Contains(t, err.Error(), "requires admin access, caller has write")
		assert.Contains(t, err.Error(), "missing permissions: users:admin")
	})
}

func TestIsPermissionDenied(t *testing.T) {
	err := CheckPermissions("delete_feature", &CallerPermissions{}, &OperationPermissionMetadata{
		MinimumAccessLevel: AccessLevelDelete,
	})
	require.Error(t, err)

	assert.True(t, IsPermissionDenied(err))
	assert.True(t, IsPermissionDenied(fmt.Errorf("executing: %w", err)))
	assert.False(t, IsPermissionDenied(ErrOperationNotFound))
}
