// apps/file/file.go
//
// File app: JSON endpoints behind the admin file manager.
//
// Context
// -------
// Each endpoint answers with an envelope of `{message?, csrf_token?}` at a
// deterministic status: 200 success, 400 missing precondition, 404 record
// not found, 405 method or CSRF rejection, 500 persistence failure.  Any
// panic inside a handler is caught, logged, and flattened to a generic 500
// so internal detail never reaches the response body.
//
// Validation failures answer 500, not 422: the replying status set is part
// of the client contract.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package file

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/skiff/internal/app"
	"github.com/yanizio/skiff/internal/metrics"
	"github.com/yanizio/skiff/internal/model"
	"github.com/yanizio/skiff/internal/pagination"
	"github.com/yanizio/skiff/internal/query"
	"github.com/yanizio/skiff/internal/response"
	"github.com/yanizio/skiff/internal/router"
	"github.com/yanizio/skiff/internal/view"
	"github.com/yanizio/skiff/internal/web"
)

func init() { app.Register(App{}) }

const tokenName = "skiff_file"

const (
	msgInvalidRequest   = "Invalid request. Please try again."
	msgMethodNotAllowed = "Method not allowed."
	msgUploadSuccess    = "The file has been successfully uploaded."
	msgUploadError      = "The file could not be uploaded. Please try again."
	msgDBUpdateFailed   = "Failed to update the database. Please try again."
	msgFileMissing      = "No file uploaded or the file is corrupted."
	msgFileNotFound     = "File not found."
	msgUpdateSuccess    = "The database has been updated successfully."
	msgFileIDRequired   = "File ID is required."
	msgFileDeleteFailed = "Failed to delete the file."
	msgDeleteSuccess    = "File has been deleted successfully."
	msgUnexpectedError  = "An unexpected error occurred. Please try again later."
)

// App registers the file-manager routes and schema.
type App struct{}

func (App) Name() string { return "file" }

func (App) Schema() []string {
	return []string{`
CREATE TABLE IF NOT EXISTS file (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    path        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  TIMESTAMP
)`}
}

func (App) Routes(env *app.Env) router.Table {
	c := &Controller{
		model: NewModel(env.DB),
		views: env.Views,
		uploader: newUploader(
			env.Config.Uploads.Dir,
			env.Config.Uploads.AllowedExtensions,
			env.Config.Uploads.MaxBytes,
		),
	}
	return router.Table{
		{Pattern: "/file/upload/", Handler: c.Upload},
		{Pattern: "/file/update/", Handler: c.Update},
		{Pattern: "/file/delete/", Handler: c.Delete},
		{Pattern: "/file/filelist/", Handler: c.Filelist},
		{Pattern: "/file/get_csrf_token/", Handler: c.Token},
	}
}

// Controller serves the file-manager endpoints.
type Controller struct {
	model    *Model
	views    *view.Renderer
	uploader *uploader
}

// guard rejects anonymous callers.  The file manager is admin-only.
func (c *Controller) guard(ctx *web.Context) bool {
	if !ctx.LoggedIn() {
		response.JSON(ctx.Writer, http.StatusForbidden, response.Envelope{Message: msgInvalidRequest})
		return false
	}
	return true
}

// recoverJSON flattens panics into a generic 500 envelope.
func recoverJSON(ctx *web.Context, endpoint string) {
	if r := recover(); r != nil {
		zap.S().Errorw("unexpected error", "endpoint", endpoint, "panic", r)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgUnexpectedError})
	}
}

// Token issues a fresh single-use CSRF token for the manager UI.
func (c *Controller) Token(ctx *web.Context) {
	if !c.guard(ctx) {
		return
	}
	token := ctx.Session.GenerateToken(tokenName)
	response.JSON(ctx.Writer, http.StatusOK, response.Envelope{CSRFToken: token})
}

// Upload stores one multipart file under the "attachment" field and records
// its path.
func (c *Controller) Upload(ctx *web.Context) {
	defer recoverJSON(ctx, "upload")
	if !c.guard(ctx) {
		return
	}

	if !ctx.IsPost() {
		response.JSON(ctx.Writer, http.StatusMethodNotAllowed, response.Envelope{Message: msgMethodNotAllowed})
		return
	}

	maxMem := c.uploader.maxBytes
	if maxMem <= 0 {
		maxMem = 32 << 20
	}
	if err := ctx.Request.ParseMultipartForm(maxMem); err != nil {
		response.JSON(ctx.Writer, http.StatusBadRequest, response.Envelope{Message: msgFileMissing})
		return
	}

	if !ctx.Session.ValidateToken(tokenName, ctx.Form().Get("csrf_token")) {
		response.JSON(ctx.Writer, http.StatusMethodNotAllowed, response.Envelope{Message: msgInvalidRequest})
		return
	}

	data := c.model.PostData(ctx.Form(), nil)
	errs, err := c.model.ValidateData(ctx.Request.Context(), data, false, 0)
	if err != nil {
		zap.S().Errorw("upload validation failed", "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgUnexpectedError})
		return
	}
	if errs != nil {
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: strings.Join(errs.Messages(), " ")})
		return
	}

	_, fh, err := ctx.Request.FormFile("attachment")
	if err != nil {
		response.JSON(ctx.Writer, http.StatusBadRequest, response.Envelope{Message: msgFileMissing})
		return
	}

	rel, err := c.uploader.save(fh)
	if err != nil {
		zap.S().Errorw("upload save failed", "name", fh.Filename, "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgUploadError})
		return
	}

	data["path"] = rel
	if _, err := c.model.CreateItem(ctx.Request.Context(), data); err != nil {
		zap.S().Errorw("upload record failed", "path", rel, "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgDBUpdateFailed})
		return
	}

	metrics.UploadTotal.Inc()
	response.JSON(ctx.Writer, http.StatusOK, response.Envelope{Message: msgUploadSuccess})
}

// Update changes a file record's description.
func (c *Controller) Update(ctx *web.Context) {
	defer recoverJSON(ctx, "update")
	if !c.guard(ctx) {
		return
	}

	if !ctx.IsPost() {
		response.JSON(ctx.Writer, http.StatusMethodNotAllowed, response.Envelope{Message: msgMethodNotAllowed})
		return
	}
	if !ctx.Session.ValidateToken(tokenName, ctx.Form().Get("csrf_token")) {
		response.JSON(ctx.Writer, http.StatusMethodNotAllowed, response.Envelope{Message: msgInvalidRequest})
		return
	}

	id, _ := strconv.ParseInt(ctx.Form().Get("id"), 10, 64)
	data, err := c.model.GetItemByID(ctx.Request.Context(), id, nil)
	if err != nil {
		zap.S().Errorw("update fetch failed", "id", id, "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgUnexpectedError})
		return
	}
	if data == nil {
		response.JSON(ctx.Writer, http.StatusNotFound, response.Envelope{Message: msgFileNotFound})
		return
	}

	if v := ctx.Form().Get("description"); v != "" {
		data["description"] = v
	}

	errs, err := c.model.ValidateData(ctx.Request.Context(), data, true, id)
	if err != nil {
		zap.S().Errorw("update validation failed", "id", id, "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgUnexpectedError})
		return
	}
	if errs != nil {
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: strings.Join(errs.Messages(), " ")})
		return
	}

	if err := c.model.UpdateItem(ctx.Request.Context(), id, data); err != nil {
		zap.S().Errorw("update write failed", "id", id, "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgDBUpdateFailed})
		return
	}
	response.JSON(ctx.Writer, http.StatusOK, response.Envelope{Message: msgUpdateSuccess})
}

// Delete removes the stored file and its record.
func (c *Controller) Delete(ctx *web.Context) {
	defer recoverJSON(ctx, "delete")
	if !c.guard(ctx) {
		return
	}

	if !ctx.Session.ValidateToken(tokenName, ctx.Form().Get("csrf_token")) {
		response.JSON(ctx.Writer, http.StatusMethodNotAllowed, response.Envelope{Message: msgInvalidRequest})
		return
	}
	if !ctx.IsPost() {
		response.JSON(ctx.Writer, http.StatusMethodNotAllowed, response.Envelope{Message: msgMethodNotAllowed})
		return
	}

	id, _ := strconv.ParseInt(ctx.Form().Get("id"), 10, 64)
	if id == 0 {
		response.JSON(ctx.Writer, http.StatusBadRequest, response.Envelope{Message: msgFileIDRequired})
		return
	}

	rec, err := c.model.GetItemByID(ctx.Request.Context(), id, nil)
	if err != nil {
		zap.S().Errorw("delete fetch failed", "id", id, "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgUnexpectedError})
		return
	}
	if rec == nil {
		response.JSON(ctx.Writer, http.StatusNotFound, response.Envelope{Message: msgFileNotFound})
		return
	}

	if rel, ok := rec["path"].(string); ok && rel != "" {
		if err := c.uploader.remove(rel); err != nil {
			zap.S().Errorw("delete file failed", "path", rel, "error", err)
			response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgFileDeleteFailed})
			return
		}
	}

	if err := c.model.HardDelete(ctx.Request.Context(), id); err != nil {
		zap.S().Errorw("delete record failed", "id", id, "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgDBUpdateFailed})
		return
	}
	response.JSON(ctx.Writer, http.StatusOK, response.Envelope{Message: msgDeleteSuccess})
}

// FilelistPayload backs the inc_filelist partial.
type FilelistPayload struct {
	Items      []model.Record
	Pagination *pagination.Pagination
}

// Filelist renders the manager's paginated picker fragment as plain HTML.
func (c *Controller) Filelist(ctx *web.Context) {
	defer recoverJSON(ctx, "filelist")
	if !c.guard(ctx) {
		return
	}

	pg := pagination.New(ctx.QueryInt("page", 1), 10)
	total, err := c.model.GetTotalItems(ctx.Request.Context(), nil)
	if err != nil {
		zap.S().Errorw("filelist count failed", "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgUnexpectedError})
		return
	}
	pg.SetTotalItems(total)

	o := query.NewSoft()
	o.SetSort("created_at", "DESC")
	o.SetPagination(pg.Offset(), pg.Limit())

	items, err := c.model.GetItems(ctx.Request.Context(), o)
	if err != nil {
		zap.S().Errorw("filelist fetch failed", "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgUnexpectedError})
		return
	}

	if err := c.views.Render(ctx.Writer, "file", "inc_filelist", FilelistPayload{Items: items, Pagination: pg}); err != nil {
		zap.S().Errorw("filelist render failed", "error", err)
		response.JSON(ctx.Writer, http.StatusInternalServerError, response.Envelope{Message: msgUnexpectedError})
	}
}
