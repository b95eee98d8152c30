package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/seolens/internal/app"
	"github.com/raysh454/seolens/internal/logging"
	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/pagination"
	"github.com/raysh454/seolens/internal/store"
)

// handlePing godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /ping [get]
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if err := s.orchestrator.Store().Ping(r.Context()); err != nil {
		s.logger.Warn("ping: storage unavailable", logging.Err(err))
		writeError(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}
	writeData(w, http.StatusOK, "pong", nil)
}

// ─── Projects ──────────────────────────────────────────────────────────

// handleDashboardTargets godoc
// @Summary      List active projects for the dashboard
// @Tags         projects
// @Produce      json
// @Security     OwnerID
// @Param        page  query     int  false  "1-based page"
// @Success      200   {object}  Envelope{data=[]model.Target}
// @Failure      401   {object}  ErrorResponse
// @Router       /seo/dashboard/project [get]
func (s *Server) handleDashboardTargets(w http.ResponseWriter, r *http.Request) {
	s.listTargets(w, r, app.ScopeDashboard, "SEO dashboard fetched successfully")
}

// handleAllTargets godoc
// @Summary      List every project
// @Tags         projects
// @Produce      json
// @Security     OwnerID
// @Param        page  query     int  false  "1-based page"
// @Success      200   {object}  Envelope{data=[]model.Target}
// @Failure      401   {object}  ErrorResponse
// @Router       /seo/projects/all [get]
func (s *Server) handleAllTargets(w http.ResponseWriter, r *http.Request) {
	s.listTargets(w, r, app.ScopeAll, "SEO projects fetched successfully")
}

func (s *Server) listTargets(w http.ResponseWriter, r *http.Request, scope app.Scope, msg string) {
	page, err := s.orchestrator.ListTargets(r.Context(), ownerFrom(r), scope, pagination.ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writePage(w, msg, page.Items, page.Info)
}

// handleTargetOverview godoc
// @Summary      Aggregate counters over the owner's projects
// @Tags         projects
// @Produce      json
// @Security     OwnerID
// @Success      200  {object}  Envelope{data=model.TargetOverview}
// @Router       /seo/project/overview [get]
func (s *Server) handleTargetOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.orchestrator.TargetOverview(r.Context(), ownerFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "SEO projects overview fetched successfully", ov)
}

// handleCreateTarget godoc
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     OwnerID
// @Param        body  body      CreateTargetRequest  true  "Project"
// @Success      201   {object}  Envelope{data=model.Target}
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  Envelope{data=model.Target}
// @Router       /seo/project/create [post]
func (s *Server) handleCreateTarget(w http.ResponseWriter, r *http.Request) {
	var req CreateTargetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := s.orchestrator.CreateTarget(r.Context(), ownerFrom(r), app.CreateTargetInput{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Keywords:    req.Keywords,
	})
	var exists *app.TargetExistsError
	if errors.As(err, &exists) {
		writeData(w, http.StatusConflict, "You already have an entry for "+req.URL, exists.Existing)
		return
	}
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "You already have an entry for "+req.URL)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "New Project created successfully", t)
}

// handleSetTargetActive godoc
// @Summary      Toggle scheduled auditing of a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     OwnerID
// @Param        projectId  path      string            true  "Project id"
// @Param        body       body      SetActiveRequest  true  "State"
// @Success      200        {object}  Envelope{data=model.Target}
// @Failure      404        {object}  ErrorResponse
// @Router       /seo/project/{projectId}/active [put]
func (s *Server) handleSetTargetActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	owner, id := ownerFrom(r), chi.URLParam(r, "projectId")
	if err := s.orchestrator.SetTargetActive(r.Context(), owner, id, req.Active); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.orchestrator.GetTarget(r.Context(), owner, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Project updated successfully", t)
}

// ─── Audits ────────────────────────────────────────────────────────────

// handleAllAudits godoc
// @Summary      List the owner's audits, newest first
// @Tags         audits
// @Produce      json
// @Security     OwnerID
// @Param        page  query     int  false  "1-based page"
// @Success      200   {object}  Envelope{data=[]model.AuditReport}
// @Router       /seo/audits/all [get]
func (s *Server) handleAllAudits(w http.ResponseWriter, r *http.Request) {
	page, err := s.orchestrator.ListReports(r.Context(), ownerFrom(r), pagination.ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writePage(w, "Audits fetched successfully", page.Items, page.Info)
}

// handleTargetAudits godoc
// @Summary      List one project's audits, newest first
// @Tags         audits
// @Produce      json
// @Security     OwnerID
// @Param        projectId  path      string  true   "Project id"
// @Param        page       query     int     false  "1-based page"
// @Success      200        {object}  Envelope{data=[]model.AuditReport}
// @Failure      404        {object}  ErrorResponse
// @Router       /seo/audits/{projectId} [get]
func (s *Server) handleTargetAudits(w http.ResponseWriter, r *http.Request) {
	page, err := s.orchestrator.ListTargetReports(r.Context(), ownerFrom(r),
		chi.URLParam(r, "projectId"), pagination.ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writePage(w, "Audits fetched successfully", page.Items, page.Info)
}

// handleAuditOverview godoc
// @Summary      Aggregate counters over the owner's audits
// @Tags         audits
// @Produce      json
// @Security     OwnerID
// @Success      200  {object}  Envelope{data=model.AuditOverview}
// @Router       /seo/audit/overview [get]
func (s *Server) handleAuditOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.orchestrator.AuditOverview(r.Context(), ownerFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "SEO audit overview fetched successfully", ov)
}

// handleRunAudit godoc
// @Summary      Audit a project now and store the result
// @Tags         audits
// @Produce      json
// @Security     OwnerID
// @Param        projectId  path      string  true  "Project id"
// @Success      201        {object}  Envelope{data=model.AuditReport}
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /seo/audit/{projectId} [post]
func (s *Server) handleRunAudit(w http.ResponseWriter, r *http.Request) {
	report, err := s.orchestrator.RunAudit(r.Context(), ownerFrom(r), chi.URLParam(r, "projectId"), model.AuditManual)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "New Audit created successfully", report)
}

// ─── Jobs ──────────────────────────────────────────────────────────────

// handleStartAuditJob godoc
// @Summary      Start a background audit
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     OwnerID
// @Param        projectId  path      string           true   "Project id"
// @Param        body       body      StartJobRequest  false  "Options"
// @Success      202        {object}  Envelope{data=app.Job}
// @Failure      404        {object}  ErrorResponse
// @Router       /seo/audit/{projectId}/jobs [post]
func (s *Server) handleStartAuditJob(w http.ResponseWriter, r *http.Request) {
	var req StartJobRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	// the job outlives this request
	job, err := s.orchestrator.StartAuditJob(context.WithoutCancel(r.Context()),
		ownerFrom(r), chi.URLParam(r, "projectId"), model.AuditType(req.Type))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusAccepted, "Audit job started", job)
}

// handleListJobs godoc
// @Summary      List the owner's jobs, newest first
// @Tags         jobs
// @Produce      json
// @Security     OwnerID
// @Success      200  {object}  Envelope{data=[]app.Job}
// @Router       /seo/jobs [get]
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "Jobs fetched successfully", s.orchestrator.ListJobs(ownerFrom(r)))
}

// handleGetJob godoc
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Security     OwnerID
// @Param        jobId  path      string  true  "Job id"
// @Success      200    {object}  Envelope{data=app.Job}
// @Failure      404    {object}  ErrorResponse
// @Router       /seo/jobs/{jobId} [get]
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.orchestrator.GetJob(ownerFrom(r), chi.URLParam(r, "jobId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Job fetched successfully", job)
}

// handleCancelJob godoc
// @Summary      Cancel a running job
// @Tags         jobs
// @Security     OwnerID
// @Param        jobId  path  string  true  "Job id"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /seo/jobs/{jobId} [delete]
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	if err := s.orchestrator.CancelJob(ownerFrom(r), chi.URLParam(r, "jobId")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAuditWS starts an audit job and streams its events over a
// websocket. Closing the socket cancels the job.
func (s *Server) handleAuditWS(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r)
	job, err := s.orchestrator.StartAuditJob(context.WithoutCancel(r.Context()),
		owner, chi.URLParam(r, "projectId"), model.AuditType(r.URL.Query().Get("type")))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logging.F("job_id", job.ID), logging.Err(err))
		_ = s.orchestrator.CancelJob(owner, job.ID)
		return
	}
	defer conn.Close()

	// Reading processes close and ping frames; a read error means the
	// client is gone.
	streamDone := make(chan struct{})
	defer close(streamDone)
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				select {
				case <-streamDone:
				default:
					s.logger.Info("websocket client gone, canceling job", logging.F("job_id", job.ID))
					_ = s.orchestrator.CancelJob(owner, job.ID)
				}
				return
			}
		}
	}()

	if err := conn.WriteJSON(app.JobEvent{JobID: job.ID, Type: app.JobEventStatus, Status: job.Status}); err != nil {
		_ = s.orchestrator.CancelJob(owner, job.ID)
		return
	}
	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			s.logger.Info("websocket client gone, canceling job", logging.F("job_id", job.ID))
			_ = s.orchestrator.CancelJob(owner, job.ID)
			return
		}
	}
}

// ─── Comparisons ───────────────────────────────────────────────────────

// handleCompareCategories godoc
// @Summary      Compare category scores of the two newest audits
// @Tags         compare
// @Produce      json
// @Security     OwnerID
// @Param        projectId  path      string  true  "Project id"
// @Success      200        {object}  Envelope{data=[]model.ComparisonResult}
// @Failure      404        {object}  ErrorResponse
// @Router       /seo/compare/{projectId} [get]
func (s *Server) handleCompareCategories(w http.ResponseWriter, r *http.Request) {
	res, err := s.orchestrator.CompareLastTwo(r.Context(), ownerFrom(r), chi.URLParam(r, "projectId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "SEO audits comparison fetched successfully", res)
}

// handleCompareAudits godoc
// @Summary      Compare individual checks of the two newest audits
// @Tags         compare
// @Produce      json
// @Security     OwnerID
// @Param        projectId  path      string  true  "Project id"
// @Success      200        {object}  Envelope{data=AuditComparisonResponse}
// @Failure      404        {object}  ErrorResponse
// @Router       /seo/compare/{projectId}/audits [get]
func (s *Server) handleCompareAudits(w http.ResponseWriter, r *http.Request) {
	res, err := s.orchestrator.CompareAudits(r.Context(), ownerFrom(r), chi.URLParam(r, "projectId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "SEO audits comparison fetched successfully",
		AuditComparisonResponse{AuditDelta: res, Regressions: res.Regressions()})
}

// ─── Reports ───────────────────────────────────────────────────────────

// handlePDF godoc
// @Summary      Download a PDF report
// @Description  Runs a fresh audit unless latest=true, in which case the newest stored audit is rendered.
// @Tags         reports
// @Produce      application/pdf
// @Security     OwnerID
// @Param        id      path      string  true   "Project id"
// @Param        latest  query     bool    false  "Render the newest stored audit"
// @Success      200     {file}    binary
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /seo/pdf/{id} [get]
func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	owner, id := ownerFrom(r), chi.URLParam(r, "id")
	latest, _ := strconv.ParseBool(r.URL.Query().Get("latest"))

	var (
		doc *app.Document
		err error
	)
	if latest {
		doc, _, err = s.orchestrator.RenderLatestReport(r.Context(), owner, id)
	} else {
		doc, err = s.orchestrator.RenderReport(r.Context(), owner, id)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		s.logger.Warn("pdf write interrupted", logging.F("target_id", id), logging.Err(err))
	}
}

// handlePublishPDF godoc
// @Summary      Publish the newest stored report
// @Tags         reports
// @Produce      json
// @Security     OwnerID
// @Param        id   path      string  true  "Project id"
// @Success      201  {object}  Envelope{data=PublishResponse}
// @Failure      404  {object}  ErrorResponse
// @Router       /seo/pdf/{id}/publish [post]
func (s *Server) handlePublishPDF(w http.ResponseWriter, r *http.Request) {
	url, err := s.orchestrator.PublishReport(r.Context(), ownerFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Report published successfully", PublishResponse{URL: url})
}

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}
