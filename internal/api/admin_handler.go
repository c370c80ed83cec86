package api

import (
	"net/http"

	"github.com/taskward/taskward-api/internal/api/shared"
	"github.com/taskward/taskward-api/internal/policy"
	"github.com/taskward/taskward-api/internal/service"
	"github.com/taskward/taskward-api/internal/sweep"
)

// AdminHandler handles administrative operations that sit outside the
// regular user and task surfaces.
type AdminHandler struct {
	engine *sweep.Engine
}

// NewAdminHandler creates a new AdminHandler with the given dependencies.
func NewAdminHandler(engine *sweep.Engine) *AdminHandler {
	return &AdminHandler{engine: engine}
}

// TriggerSweep handles POST /api/admin/sweep: an on-demand run of the same
// overdue sweep the scheduler triggers periodically. Admin only; a run
// already in progress yields a conflict.
func (h *AdminHandler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(w, r)
	if !ok {
		return
	}

	if err := policy.Authorize(caller, policy.ActionRunSweep, policy.Resource{}); err != nil {
		HandleAPIError(w, r, service.ErrPermissionDenied, "")
		return
	}

	report, err := h.engine.Run(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSweepResponse(report))
}
