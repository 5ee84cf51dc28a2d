package qrs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppValidate(t *testing.T) {
	tests := []struct {
		name    string
		app     *App
		wantErr string
	}{
		{
			name: "valid",
			app:  &App{AppCondensed: AppCondensed{Name: "Sales"}},
		},
		{
			name: "valid with identifier",
			app:  &App{AppCondensed: AppCondensed{ID: "11111111-2222-3333-4444-555555555555", Name: "Sales"}},
		},
		{
			name:    "missing name",
			app:     &App{},
			wantErr: "name is required",
		},
		{
			name:    "malformed identifier",
			app:     &App{AppCondensed: AppCondensed{ID: "not-a-guid", Name: "Sales"}},
			wantErr: "malformed identifier",
		},
		{
			name: "invalid custom property value",
			app: &App{
				AppCondensed:     AppCondensed{Name: "Sales"},
				CustomProperties: []CustomPropertyValue{{Value: "prod"}},
			},
			wantErr: "definition is required",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.app.Validate()

			if testCase.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.False(t, IsRemoteValidation(err))
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}

func TestUserValidate(t *testing.T) {
	valid := &User{UserCondensed: UserCondensed{UserID: "jdoe", UserDirectory: "QLIK"}}
	assert.NoError(t, valid.Validate())

	missingID := &User{UserCondensed: UserCondensed{UserDirectory: "QLIK"}}
	assert.Error(t, missingID.Validate())

	missingDir := &User{UserCondensed: UserCondensed{UserID: "jdoe"}}
	assert.Error(t, missingDir.Validate())
}

func TestCustomPropertyDefinitionValidate(t *testing.T) {
	valid := &CustomPropertyDefinition{
		CustomPropertyDefinitionCondensed: CustomPropertyDefinitionCondensed{
			Name:      "environment",
			ValueType: ValueTypeText,
		},
	}
	assert.NoError(t, valid.Validate())

	badType := &CustomPropertyDefinition{
		CustomPropertyDefinitionCondensed: CustomPropertyDefinitionCondensed{
			Name:      "environment",
			ValueType: "Blob",
		},
	}

	err := badType.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed by the platform")
}

func TestTouchStampsModifiedDate(t *testing.T) {
	stream := &Stream{StreamCondensed: StreamCondensed{Name: "Finance"}}
	require.Nil(t, stream.ModifiedDate)

	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	Touch(stream, stamp)

	require.NotNil(t, stream.ModifiedDate)
	assert.Equal(t, stamp, *stream.ModifiedDate)
}

func TestTaskTerminal(t *testing.T) {
	for _, status := range []string{TaskStatusSuccess, TaskStatusFail, TaskStatusAborted, TaskStatusError} {
		assert.True(t, (&Task{Status: status}).Terminal(), status)
	}

	for _, status := range []string{"", "Running", "Queued"} {
		assert.False(t, (&Task{Status: status}).Terminal(), status)
	}
}

func TestEntityIdentity(t *testing.T) {
	app := &App{AppCondensed: AppCondensed{ID: "a", Name: "Sales"}}
	assert.Equal(t, "a", app.EntityID())
	assert.Equal(t, "Sales", app.EntityName())

	// Condensed and full attribution answer identity the same way.
	assert.Equal(t, app.EntityID(), app.AppCondensed.EntityID())
}

func TestAbsorbRejectsForeignKind(t *testing.T) {
	stream := &Stream{StreamCondensed: StreamCondensed{Name: "Finance"}}

	err := stream.absorb(&Tag{TagCondensed: TagCondensed{Name: "finance"}})
	require.Error(t, err)
}
