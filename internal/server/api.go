package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"triday/internal/actionlog"
	"triday/internal/config"
	"triday/internal/lifecycle"
	"triday/internal/model"
	"triday/internal/recur"
	"triday/internal/snapshot"
	"triday/internal/timetrack"
)

// App holds what the handlers depend on.
type App struct {
	Manager *lifecycle.Manager
	Config  *config.Config
}

type API struct {
	App *App
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// writeItemResult maps operation errors onto status codes. A persistence
// failure is not a failed mutation: the item is returned with a warning so
// the client can tell the user the disk write needs a retry.
func writeItemResult(w http.ResponseWriter, it model.Item, err error) {
	var perr *lifecycle.PersistenceError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, it)
	case errors.As(err, &perr):
		writeJSON(w, http.StatusOK, map[string]any{
			"item":         it,
			"persistError": perr.Error(),
		})
	case errors.Is(err, lifecycle.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, lifecycle.ErrDeleted):
		writeErr(w, http.StatusGone, err.Error())
	case errors.Is(err, timetrack.ErrAlreadyRunning),
		errors.Is(err, timetrack.ErrNotRunning):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, lifecycle.ErrUnknownTab),
		errors.Is(err, lifecycle.ErrBadCategory),
		errors.Is(err, lifecycle.ErrNotChecklist),
		errors.Is(err, timetrack.ErrNotTimeItem),
		errors.Is(err, recur.ErrInvalidRecurrence):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	api := &API{App: app}

	handle(mux, rr, "GET /healthz", "liveness probe", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	handle(mux, rr, "GET /_/admin/routes.json", "list registered routes", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rr.List())
	})

	handle(mux, rr, "GET /api/items", "list visible items with derived status", "", api.listItems)
	handle(mux, rr, "POST /api/items", "create an item",
		`{"tab":"dayToDay","title":"water the plants"}`, api.createItem)
	handle(mux, rr, "GET /api/items/{id}", "fetch one item", "", api.getItem)
	handle(mux, rr, "PATCH /api/items/{id}", "partial field update",
		`{"title":"new title"}`, api.updateItem)
	handle(mux, rr, "POST /api/items/{id}/toggle", "toggle checklist completion", "", api.toggleItem)
	handle(mux, rr, "POST /api/items/{id}/archive", "archive item", "", api.archiveItem)
	handle(mux, rr, "POST /api/items/{id}/unarchive", "unarchive item", "", api.unarchiveItem)
	handle(mux, rr, "DELETE /api/items/{id}", "soft-delete item", "", api.deleteItem)
	handle(mux, rr, "POST /api/items/{id}/timer/start", "start timer", "", api.startTimer)
	handle(mux, rr, "POST /api/items/{id}/timer/stop", "stop timer and credit minutes", "", api.stopTimer)

	handle(mux, rr, "GET /api/categories", "two-level category tree", "", api.listCategories)
	handle(mux, rr, "GET /api/log", "append-only action log", "", api.listLog)
	handle(mux, rr, "GET /api/cleanup/stats", "cleanup candidates for the suggestion service", "", api.cleanupStats)
	handle(mux, rr, "GET /api/export", "full snapshot export", "", api.exportSnapshot)
	handle(mux, rr, "POST /api/import", "import snapshot, ?mode=combine|overwrite",
		`{"items":[],"log":[],"categories":[]}`, api.importSnapshot)
}

func itemID(r *http.Request) model.ItemID {
	return model.ItemID(r.PathValue("id"))
}

func (a *API) listItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.App.Manager.Items())
}

func (a *API) createItem(w http.ResponseWriter, r *http.Request) {
	var p lifecycle.CreateParams
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	it, err := a.App.Manager.CreateItem(p)
	if err == nil {
		writeJSON(w, http.StatusCreated, it)
		return
	}
	writeItemResult(w, it, err)
}

func (a *API) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := a.App.Manager.Item(itemID(r))
	writeItemResult(w, it, err)
}

func (a *API) updateItem(w http.ResponseWriter, r *http.Request) {
	var p lifecycle.Patch
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	it, err := a.App.Manager.UpdateFields(itemID(r), p)
	writeItemResult(w, it, err)
}

func (a *API) toggleItem(w http.ResponseWriter, r *http.Request) {
	it, err := a.App.Manager.ToggleComplete(itemID(r))
	writeItemResult(w, it, err)
}

func (a *API) archiveItem(w http.ResponseWriter, r *http.Request) {
	it, err := a.App.Manager.Archive(itemID(r))
	writeItemResult(w, it, err)
}

func (a *API) unarchiveItem(w http.ResponseWriter, r *http.Request) {
	it, err := a.App.Manager.Unarchive(itemID(r))
	writeItemResult(w, it, err)
}

func (a *API) deleteItem(w http.ResponseWriter, r *http.Request) {
	it, err := a.App.Manager.SoftDelete(itemID(r))
	writeItemResult(w, it, err)
}

func (a *API) startTimer(w http.ResponseWriter, r *http.Request) {
	it, err := a.App.Manager.StartTimer(itemID(r))
	writeItemResult(w, it, err)
}

func (a *API) stopTimer(w http.ResponseWriter, r *http.Request) {
	it, err := a.App.Manager.StopTimer(itemID(r))
	writeItemResult(w, it, err)
}

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.App.Manager.Categories())
}

func (a *API) listLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.App.Manager.Snapshot().Log)
}

func (a *API) cleanupStats(w http.ResponseWriter, r *http.Request) {
	var th actionlog.Thresholds
	if a.App.Config != nil {
		th = a.App.Config.Cleanup.Thresholds
	}
	writeJSON(w, http.StatusOK, a.App.Manager.CleanupStats(th))
}

func (a *API) exportSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.App.Manager.Snapshot())
}

func (a *API) importSnapshot(w http.ResponseWriter, r *http.Request) {
	mode := snapshot.MergeMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = snapshot.MergeCombine
	}
	if !mode.Valid() {
		writeErr(w, http.StatusBadRequest, "mode must be combine or overwrite")
		return
	}
	var incoming model.AppState
	if err := decodeJSON(r, &incoming); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := a.App.Manager.Import(incoming, mode); err != nil {
		var perr *lifecycle.PersistenceError
		if errors.As(err, &perr) {
			writeJSON(w, http.StatusOK, map[string]any{"persistError": perr.Error()})
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
