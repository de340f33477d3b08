package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
	"github.com/lakeview/cottage-admin-console/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountStore_Save(t *testing.T) {
	ctx := context.Background()
	form := models.AdminForm{Name: "Front Desk", Email: "desk@example.com", Password: "secret"}

	t.Run("empty selection creates and re-fetches", func(t *testing.T) {
		api := newFakeAPI()
		audit := &recordingAudit{}
		store := NewAccountStore(api, audit, Actor{AdminID: "root"}, quietLogger())

		list, err := store.Save(ctx, "", form)
		require.NoError(t, err)
		assert.Equal(t, 1, api.callCount("register_admin"))
		assert.Zero(t, api.callCount("update_admin"))
		assert.Equal(t, 1, api.callCount("list_admins"))
		require.Len(t, list.Admins, 1)
		assert.Equal(t, models.AdminRoleAdmin, list.Admins[0].Role)
		assert.Equal(t, []string{"admin_create"}, audit.actions())
	})

	t.Run("selected account is updated", func(t *testing.T) {
		api := newFakeAPI()
		api.admins = []models.AdminAccount{{ID: "a7", Name: "Old Name", Email: "desk@example.com", Role: models.AdminRoleAdmin}}
		audit := &recordingAudit{}
		store := NewAccountStore(api, audit, Actor{AdminID: "root"}, quietLogger())

		list, err := store.Save(ctx, "a7", form)
		require.NoError(t, err)
		assert.Equal(t, "a7", api.lastUpdate)
		assert.Zero(t, api.callCount("register_admin"))
		assert.Equal(t, "Front Desk", list.Admins[0].Name)
		assert.Equal(t, []string{"admin_update"}, audit.actions())
	})

	t.Run("missing password never reaches the server", func(t *testing.T) {
		api := newFakeAPI()
		store := NewAccountStore(api, nil, Actor{}, quietLogger())

		_, err := store.Save(ctx, "", models.AdminForm{Name: "Desk", Email: "desk@example.com"})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))
		assert.Equal(t, "Name, email, and password are required", err.Error())
		assert.Zero(t, api.callCount("register_admin"))
	})

	t.Run("remote rejection skips the re-fetch", func(t *testing.T) {
		api := newFakeAPI()
		api.saveErr = &adminapi.RemoteError{Op: adminapi.OpRegisterAdmin, Status: http.StatusConflict, Message: "Email already exists"}
		store := NewAccountStore(api, nil, Actor{}, quietLogger())

		_, err := store.Save(ctx, "", form)
		require.Error(t, err)
		assert.Equal(t, "Email already exists", errorMessage(err))
		assert.Zero(t, api.callCount("list_admins"))
	})
}

func TestActivityLogStore_Visible(t *testing.T) {
	api := newFakeAPI()
	api.activity = []models.ActivityLogGroup{
		{Name: "Root", Role: models.AdminRoleSuperAdmin, ActivityLogs: []models.ActivityEntry{{ID: "1", Action: "login"}}},
		{Name: "Desk", Role: models.AdminRoleAdmin, ActivityLogs: []models.ActivityEntry{{ID: "2", Action: "confirm"}}},
	}
	store := NewActivityLogStore(api, quietLogger())
	require.NoError(t, store.Fetch(context.Background()))

	assert.Len(t, store.Visible(models.AdminRoleSuperAdmin).Groups, 2)

	visible := store.Visible(models.AdminRoleAdmin).Groups
	require.Len(t, visible, 1)
	assert.Equal(t, "Desk", visible[0].Name)
}
