package adminapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lakeview/cottage-admin-console/internal/models"
)

// Login authenticates with the remote API. The session cookie it sets is kept
// in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AdminAccount, error) {
	body, err := c.do(ctx, request{
		op:     OpLogin,
		method: http.MethodPost,
		path:   "/admin/login",
		body:   models.LoginRequest{Email: email, Password: password},
	})
	if err != nil {
		return nil, err
	}

	fields, err := envelope(OpLogin, body)
	if err != nil {
		return nil, err
	}
	var admin models.AdminAccount
	if err := field(OpLogin, fields, "admin", &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// Logout ends the remote session
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, request{
		op:     OpLogout,
		method: http.MethodPost,
		path:   "/admin/logout",
		body:   struct{}{},
	})
	return err
}

// CheckAuth returns the admin the remote session belongs to
func (c *Client) CheckAuth(ctx context.Context) (*models.AdminAccount, error) {
	body, err := c.do(ctx, request{
		op:     OpCheckAuth,
		method: http.MethodGet,
		path:   "/admin/check-auth",
	})
	if err != nil {
		return nil, err
	}

	fields, err := envelope(OpCheckAuth, body)
	if err != nil {
		return nil, err
	}
	var user models.AdminAccount
	if err := field(OpCheckAuth, fields, "user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAdmins returns every admin account
func (c *Client) ListAdmins(ctx context.Context) ([]models.AdminAccount, error) {
	body, err := c.do(ctx, request{
		op:     OpListAdmins,
		method: http.MethodGet,
		path:   "/admin/admins",
	})
	if err != nil {
		return nil, err
	}

	var admins []models.AdminAccount
	if err := json.Unmarshal(body, &admins); err != nil {
		return nil, &SchemaError{Op: OpListAdmins, Field: "<array>", Err: err}
	}
	return admins, nil
}

// RegisterAdmin creates an admin account. The returned account may be nil
// when the server acknowledges without echoing it.
func (c *Client) RegisterAdmin(ctx context.Context, form models.AdminForm) (*models.AdminAccount, error) {
	body, err := c.do(ctx, request{
		op:     OpRegisterAdmin,
		method: http.MethodPost,
		path:   "/admin/register",
		body:   form,
		bearer: true,
	})
	if err != nil {
		return nil, err
	}

	fields, err := envelope(OpRegisterAdmin, body)
	if err != nil {
		return nil, err
	}
	var user models.AdminAccount
	found, err := optionalField(OpRegisterAdmin, fields, "user", &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// UpdateAdmin sends a partial update for one account
func (c *Client) UpdateAdmin(ctx context.Context, adminID string, form models.AdminForm) error {
	_, err := c.do(ctx, request{
		op:     OpUpdateAdmin,
		method: http.MethodPut,
		path:   "/admin/update/" + adminID,
		body:   form,
		bearer: true,
	})
	return err
}

// ActivityLogs returns the activity of every admin, unfiltered
func (c *Client) ActivityLogs(ctx context.Context) ([]models.ActivityLogGroup, error) {
	body, err := c.do(ctx, request{
		op:     OpActivityLogs,
		method: http.MethodGet,
		path:   "/admin/activity-log",
	})
	if err != nil {
		return nil, err
	}

	fields, err := envelope(OpActivityLogs, body)
	if err != nil {
		return nil, err
	}
	var groups []models.ActivityLogGroup
	if err := field(OpActivityLogs, fields, "activityLogs", &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
