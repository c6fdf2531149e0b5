package ui

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/pkg/model"
)

// HandleUserList renders the user administration page, optionally filtered by ?role=.
func (ui *UI) HandleUserList(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	ctx := r.Context()

	var (
		users []model.Account
		err   error
	)
	filter := r.URL.Query().Get("role")
	if role, ok := model.ParseRole(filter); ok {
		users, err = c.Primary.ListUsersByRole(ctx, role)
	} else {
		filter = ""
		users, err = c.Primary.ListUsers(ctx)
	}
	if err != nil {
		ui.apiFailed(w, r, c, "Failed to load users", err)
		return
	}

	data := ui.page(r, "Users")
	data["Users"] = users
	data["Roles"] = model.Roles()
	data["Filter"] = filter
	ui.render(w, http.StatusOK, "users", data)
}

// HandleUserCreate creates an account.
func (ui *UI) HandleUserCreate(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		ui.back(w, r, c, "/users", "error", "Invalid request")
		return
	}

	req := model.CreateAccountRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Role:     model.Role(r.FormValue("role")),
	}
	if err := req.Validate(); err != nil {
		ui.back(w, r, c, "/users", "error", formError(err))
		return
	}
	acct, err := c.Primary.CreateUser(r.Context(), req)
	if err != nil {
		ui.back(w, r, c, "/users", "error", "Failed to create user: "+apiclient.Message(err))
		return
	}
	ui.logger.Info("user created", "user", acct.ID, "role", acct.Role)
	ui.back(w, r, c, "/users", "notice", "Created "+acct.Username)
}

// HandleUserUpdate edits an account. Blank fields are left unchanged.
func (ui *UI) HandleUserUpdate(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		ui.back(w, r, c, "/users", "error", "Invalid request")
		return
	}

	id := chi.URLParam(r, "id")
	req := model.UpdateAccountRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Role:     model.Role(r.FormValue("role")),
	}
	if err := req.Validate(); err != nil {
		ui.back(w, r, c, "/users", "error", formError(err))
		return
	}
	if _, err := c.Primary.UpdateUser(r.Context(), id, req); err != nil {
		ui.back(w, r, c, "/users", "error", "Failed to update user: "+apiclient.Message(err))
		return
	}
	ui.back(w, r, c, "/users", "notice", "User updated")
}

// HandleUserDelete deletes an account.
func (ui *UI) HandleUserDelete(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := c.Primary.DeleteUser(r.Context(), id); err != nil {
		ui.back(w, r, c, "/users", "error", "Failed to delete user: "+apiclient.Message(err))
		return
	}
	ui.logger.Info("user deleted", "user", id)
	ui.back(w, r, c, "/users", "notice", "User deleted")
}
