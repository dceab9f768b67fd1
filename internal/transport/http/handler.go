package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"code-review-service/internal/entity"
	"code-review-service/internal/service"
)

type Handler struct {
	mgr *service.Manager
}

func NewHandler(mgr *service.Manager) *Handler {
	return &Handler{mgr: mgr}
}

type stageFlags struct {
	Security    bool `json:"security"`
	Bugs        bool `json:"bugs"`
	Quality     bool `json:"quality"`
	Performance bool `json:"performance"`
	Tests       bool `json:"tests"`
}

type submitReviewDTO struct {
	ChangeRef           string     `json:"change_ref"`
	RepoRef             string     `json:"repo_ref"`
	CompareTargetBranch bool       `json:"compare_target_branch"`
	EnabledStages       stageFlags `json:"enabled_stages"`
}

type submitReviewResp struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
}

type statusResp struct {
	Success     bool                 `json:"success"`
	Status      entity.JobStatus     `json:"status"`
	Progress    float64              `json:"progress"`
	CurrentStep string               `json:"current_step"`
	Results     *entity.ReviewReport `json:"results,omitempty"`
	Error       string               `json:"error,omitempty"`
}

type cancelResp struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// SubmitReview godoc
// @Summary Submit a change for review
// @Description Creates a review job and starts the analysis pipeline in the background. Poll the status endpoint until the job is terminal.
// @Tags review
// @Accept json
// @Produce json
// @Param request body submitReviewDTO true "review request"
// @Success 202 {object} submitReviewResp
// @Failure 400 {object} apiError
// @Failure 500 {object} apiError
// @Router /review [post]
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var dto submitReviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	id, err := h.mgr.Submit(r.Context(), service.SubmitRequest{
		RepoRef:   dto.RepoRef,
		ChangeRef: dto.ChangeRef,
		EnabledStages: map[entity.Stage]bool{
			entity.StageSecurity:    dto.EnabledStages.Security,
			entity.StageBugs:        dto.EnabledStages.Bugs,
			entity.StageQuality:     dto.EnabledStages.Quality,
			entity.StagePerformance: dto.EnabledStages.Performance,
			entity.StageTests:       dto.EnabledStages.Tests,
		},
		CompareTargetBranch: dto.CompareTargetBranch,
	})
	if err != nil {
		writeErr(w, statusFor(err), errMessage(err))
		return
	}

	writeJSON(w, http.StatusAccepted, submitReviewResp{Success: true, JobID: id})
}

// GetReviewStatus godoc
// @Summary Poll a review job
// @Description Returns progress while the job runs and the full report once it completes.
// @Tags review
// @Produce json
// @Param job_id path string true "job id"
// @Success 200 {object} statusResp
// @Failure 404 {object} apiError
// @Router /review/status/{job_id} [get]
func (h *Handler) GetReviewStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "job_id")

	job, err := h.mgr.GetStatus(r.Context(), id)
	if err != nil {
		writeErr(w, statusFor(err), errMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, statusResponse(job))
}

// CancelReview godoc
// @Summary Cancel a running review
// @Description Signals the job's pipeline to stop at the next stage boundary. The job ends up failed with a cancellation reason.
// @Tags review
// @Produce json
// @Param job_id path string true "job id"
// @Success 202 {object} cancelResp
// @Failure 400 {object} apiError
// @Failure 404 {object} apiError
// @Router /review/{job_id} [delete]
func (h *Handler) CancelReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "job_id")

	if err := h.mgr.Cancel(r.Context(), id); err != nil {
		writeErr(w, statusFor(err), errMessage(err))
		return
	}

	writeJSON(w, http.StatusAccepted, cancelResp{
		Success: true,
		JobID:   id,
		Message: "cancellation requested",
	})
}

// statusResponse maps the internal job onto the wire shape. Queued jobs are
// reported as running: from the caller's side the review is already in
// flight.
func statusResponse(job *entity.ReviewJob) statusResp {
	status := job.Status
	if status == entity.StatusQueued {
		status = entity.StatusRunning
	}
	return statusResp{
		Success:     true,
		Status:      status,
		Progress:    job.Progress,
		CurrentStep: job.CurrentStage,
		Results:     job.Result,
		Error:       job.Error,
	}
}
