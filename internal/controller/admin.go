// internal/controller/admin.go
//
// Admin create/edit/delete flows.
//
// Context
// -------
// Mutating form actions follow redirect-after-post: a failed POST stashes
// the submitted values, field errors, and an error message in one-time
// session flash keys, then redirects back to the form URL so a refresh
// never resubmits.  A successful POST redirects to the canonical edit URL
// for the affected record with a one-time success message.  The GET that
// follows either redirect drains the flash keys and renders.
//
// CSRF tokens are per-form and single-use: renderForm issues a fresh token
// under the controller's namespace, and validation consumes it.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package controller

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/skiff/internal/model"
	"github.com/yanizio/skiff/internal/response"
	"github.com/yanizio/skiff/internal/session"
	"github.com/yanizio/skiff/internal/web"
)

const (
	msgCreateSuccess = "The item has been created."
	msgCreateError   = "The item could not be created."
	msgEditSuccess   = "The changes have been saved."
	msgEditError     = "The changes could not be saved."
	msgInvalidCSRF   = "Invalid request. Please try again."

	// formErrorKey carries non-field errors (CSRF, storage) in the error map.
	formErrorKey = "_form"
)

// AdminConfig extends Config with the form-flow surface.
type AdminConfig struct {
	Config

	CreateTitle string
	EditTitle   string
	CreateView  string // default "create"
	EditView    string // default "edit"
	TokenName   string // CSRF namespace, e.g. "page_admin"
}

// Admin implements create, edit, and hard-delete on top of Base.
type Admin struct {
	Base
	acfg AdminConfig
}

// NewAdmin returns an Admin controller for cfg.
func NewAdmin(cfg AdminConfig) *Admin {
	if cfg.CreateView == "" {
		cfg.CreateView = "create"
	}
	if cfg.EditView == "" {
		cfg.EditView = "edit"
	}
	if cfg.TokenName == "" {
		cfg.TokenName = cfg.App + "_admin"
	}
	return &Admin{Base: *NewBase(cfg.Config), acfg: cfg}
}

// FormPayload is the template payload for create and edit views.
type FormPayload struct {
	Errors  map[string][]string
	Success string
	Error   string
	Token   string
	Data    model.Record
	ID      int64
	Item    model.Record
}

// flash drains the one-time session keys a form redirect leaves behind.
func flash(ctx *web.Context) (formData model.Record, errs map[string][]string, success, failure string) {
	if v, ok := ctx.Session.GetOnce(session.KeyFormData, nil).(model.Record); ok {
		formData = v
	}
	if v, ok := ctx.Session.GetOnce(session.KeyErrors, nil).(map[string][]string); ok {
		errs = v
	}
	success = ctx.Session.OnceString(session.KeySuccessMsg)
	failure = ctx.Session.OnceString(session.KeyErrorMsg)
	return formData, errs, success, failure
}

// ActionList renders the admin listing.  Unlike the public list it is
// gated on the admin flag.
func (c *Admin) ActionList(ctx *web.Context) {
	if !c.requireAdmin(ctx) {
		return
	}
	c.Base.ActionList(ctx)
}

// ActionCreate renders the create form on GET and processes it on POST.
func (c *Admin) ActionCreate(ctx *web.Context) {
	if !c.requireAdmin(ctx) {
		return
	}

	formData, errs, success, failure := flash(ctx)
	data := c.cfg.Model.PostData(ctx.Form(), formData)

	if ctx.IsPost() {
		errs, newID := c.processRequestData(ctx, data, false, 0)
		if len(errs) == 0 {
			ctx.Session.Set(session.KeySuccessMsg, msgCreateSuccess)
			response.Redirect(ctx.Writer, ctx.Request, fmt.Sprintf("/%s/admin/edit/%d", c.cfg.App, newID))
		} else {
			ctx.Session.Set(session.KeyErrorMsg, msgCreateError)
			ctx.Session.Set(session.KeyErrors, map[string][]string(errs))
			ctx.Session.Set(session.KeyFormData, data)
			response.Redirect(ctx.Writer, ctx.Request, "/"+c.cfg.App+"/admin/create/")
		}
		return
	}

	c.renderForm(ctx, c.acfg.CreateView, c.acfg.CreateTitle, FormPayload{
		Errors:  errs,
		Success: success,
		Error:   failure,
		Data:    data,
	})
}

// ActionEdit renders the edit form on GET and processes it on POST.  404
// when the record is absent.
func (c *Admin) ActionEdit(ctx *web.Context) {
	if !c.requireAdmin(ctx) {
		return
	}
	id := ctx.ParamInt64(0)

	formData, errs, success, failure := flash(ctx)

	// No option here: admins may edit trashed records.
	item, err := c.cfg.Model.GetItemByID(ctx.Request.Context(), id, nil)
	if err != nil {
		zap.S().Errorw("edit fetch failed", "app", c.cfg.App, "id", id, "error", err)
		response.ServerError(ctx.Writer, "Failed to load the item.")
		return
	}
	if item == nil {
		response.NotFound(ctx.Writer)
		return
	}

	// Flashed values win over stored ones, stored ones over defaults.
	merged := make(model.Record, len(item)+len(formData))
	for k, v := range item {
		merged[k] = v
	}
	for k, v := range formData {
		merged[k] = v
	}
	data := c.cfg.Model.PostData(ctx.Form(), merged)

	if ctx.IsPost() {
		errs, _ := c.processRequestData(ctx, data, true, id)
		if len(errs) == 0 {
			ctx.Session.Set(session.KeySuccessMsg, msgEditSuccess)
		} else {
			ctx.Session.Set(session.KeyErrorMsg, msgEditError)
			ctx.Session.Set(session.KeyErrors, map[string][]string(errs))
			ctx.Session.Set(session.KeyFormData, data)
		}
		response.Redirect(ctx.Writer, ctx.Request, fmt.Sprintf("/%s/admin/edit/%d", c.cfg.App, id))
		return
	}

	c.renderForm(ctx, c.acfg.EditView, c.acfg.EditTitle, FormPayload{
		Errors:  errs,
		Success: success,
		Error:   failure,
		Data:    data,
		ID:      id,
		Item:    item,
	})
}

// ActionHardDelete removes the row outright and returns to the admin list.
func (c *Admin) ActionHardDelete(ctx *web.Context) {
	if !c.requireAdmin(ctx) {
		return
	}
	id := ctx.ParamInt64(0)
	if err := c.cfg.Model.HardDelete(ctx.Request.Context(), id); err != nil {
		zap.S().Errorw("hard delete failed", "app", c.cfg.App, "id", id, "error", err)
		response.ServerError(ctx.Writer, "Failed to delete the item.")
		return
	}
	response.Redirect(ctx.Writer, ctx.Request, "/"+c.cfg.App+"/admin/")
}

// processRequestData validates the CSRF token and the payload, then
// persists.  Returns the error map (empty on success) and, for creates, the
// new record id.
func (c *Admin) processRequestData(ctx *web.Context, data model.Record, isEdit bool, id int64) (model.ValidationErrors, int64) {
	if !ctx.Session.ValidateToken(c.acfg.TokenName, ctx.Form().Get("csrf_token")) {
		return model.ValidationErrors{formErrorKey: {msgInvalidCSRF}}, 0
	}

	errs, err := c.cfg.Model.ValidateData(ctx.Request.Context(), data, isEdit, id)
	if err != nil {
		zap.S().Errorw("validation failed", "app", c.cfg.App, "error", err)
		return model.ValidationErrors{formErrorKey: {"Validation could not be completed."}}, 0
	}
	if errs != nil {
		return errs, 0
	}

	if isEdit {
		if err := c.cfg.Model.UpdateItem(ctx.Request.Context(), id, data); err != nil {
			zap.S().Errorw("update failed", "app", c.cfg.App, "id", id, "error", err)
			return model.ValidationErrors{formErrorKey: {"Failed to update item."}}, 0
		}
		return nil, id
	}

	newID, err := c.cfg.Model.CreateItem(ctx.Request.Context(), data)
	if err != nil {
		zap.S().Errorw("create failed", "app", c.cfg.App, "error", err)
		return model.ValidationErrors{formErrorKey: {"Failed to create item."}}, 0
	}
	return nil, newID
}

// renderForm issues a fresh CSRF token and renders a form view.
func (c *Admin) renderForm(ctx *web.Context, viewName, title string, payload FormPayload) {
	payload.Token = ctx.Session.GenerateToken(c.acfg.TokenName)
	c.renderStandardPage(ctx, viewName, title, payload)
}
