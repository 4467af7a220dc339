package apiserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/projector"
	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/runner"
	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/team"
	"github.com/YogaBharath-R/ITSM-Agent/internal/api"
)

// handleSubmitRun executes one agent run, streaming projection output as
// server-sent events. Rejections (empty incident, overlapping run) happen
// before the stream opens, so they return plain JSON error responses.
func (s *Server) handleSubmitRun(w http.ResponseWriter, r *http.Request) {
	var inc runner.Incident
	if err := json.NewDecoder(r.Body).Decode(&inc); err != nil {
		api.WriteError(w, http.StatusBadRequest, string(api.ErrorCodeInvalidRequest),
			"Request body must be JSON with from, to, subject and body fields")
		return
	}

	ctx, span := s.getTracer("itsm.api").Start(r.Context(), "agent.run")
	defer span.End()

	sink := newSSESink(w, s)
	state, err := s.agentRunner.Submit(ctx, inc, sink)

	switch {
	case errors.Is(err, runner.ErrEmptyIncident):
		api.WriteError(w, http.StatusBadRequest, string(api.ErrorCodeEmptyIncident),
			"Please enter incident details")
		return
	case errors.Is(err, runner.ErrRunInProgress):
		api.WriteError(w, http.StatusConflict, string(api.ErrorCodeRunInProgress),
			"Another run is in progress, try again when it completes")
		return
	case err != nil:
		s.logger.Error("Agent run failed: %v", err)
		if sink.started {
			// The stream is already open; surface the failure inline so
			// the UI can clear its progress indicator.
			sink.send("error", map[string]interface{}{
				"error":   string(api.ErrorCodeInternalError),
				"message": err.Error(),
			})
			return
		}
		api.WriteError(w, http.StatusInternalServerError, string(api.ErrorCodeInternalError), err.Error())
		return
	}

	hasReport := state.Content != ""
	completed := map[string]interface{}{
		"run_id":     state.RunID,
		"has_report": hasReport,
	}
	if hasReport {
		completed["report_url"] = fmt.Sprintf("/api/runs/%s/report", state.RunID)
	}
	sink.send("completed", completed)
}

// handleReportDownload serves the accumulated report of a completed run as
// a downloadable markdown file.
func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	runID, ok := strings.CutSuffix(rest, "/report")
	if !ok || runID == "" || strings.Contains(runID, "/") {
		api.WriteError(w, http.StatusNotFound, string(api.ErrorCodeNotFound),
			"Expected /api/runs/{run_id}/report")
		return
	}

	content, ok := s.agentRunner.Report(runID)
	if !ok || content == "" {
		api.WriteError(w, http.StatusNotFound, string(api.ErrorCodeNotFound),
			fmt.Sprintf("No report available for run %s", runID))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=itsm_report_%s.md", runID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

// teamMember is one entry in the /api/team response.
type teamMember struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// handleTeam lists the delegation targets for the UI sidebar.
func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	members := make([]teamMember, 0, len(team.Members()))
	for _, name := range team.Members() {
		members = append(members, teamMember{
			Name:        name,
			Label:       team.MemberLabel(name),
			Description: team.MemberDescription(name),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = api.WriteJSON(w, map[string]interface{}{
		"model": s.agentRunner.Model(),
		"team":  members,
	})
}

// sseSink streams projection output as server-sent events. Headers are
// written lazily on the first event so pre-run rejections can still use
// normal JSON error responses.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	server  *Server
	started bool
}

func newSSESink(w http.ResponseWriter, server *Server) *sseSink {
	return &sseSink{w: w, server: server}
}

func (s *sseSink) begin() {
	if s.started {
		return
	}
	s.started = true

	s.w.Header().Set("Content-Type", "text/event-stream")
	s.w.Header().Set("Cache-Control", "no-cache")
	s.w.Header().Set("Connection", "keep-alive")
	s.w.WriteHeader(http.StatusOK)

	flusher, ok := s.w.(http.Flusher)
	if !ok {
		s.server.logger.Warn("SSE streaming degraded: ResponseWriter doesn't implement Flusher")
		return
	}
	s.flusher = flusher
	s.flusher.Flush()
}

func (s *sseSink) send(event string, data interface{}) {
	s.begin()

	payload, err := json.Marshal(data)
	if err != nil {
		s.server.logger.Error("Failed to marshal SSE payload: %v", err)
		return
	}

	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload)
	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// Step implements projector.Sink.
func (s *sseSink) Step(number int, step projector.Step) {
	s.send("step", map[string]interface{}{
		"number":  number,
		"icon":    step.Icon,
		"title":   step.Title,
		"content": step.Content,
		"kind":    step.Kind,
	})
}

// Progress implements projector.Sink.
func (s *sseSink) Progress(progress float64) {
	s.send("progress", map[string]interface{}{
		"progress": progress,
	})
}

// Status implements projector.Sink.
func (s *sseSink) Status(message string) {
	s.send("status", map[string]interface{}{
		"message": message,
	})
}

// Content implements projector.Sink.
func (s *sseSink) Content(delta string) {
	s.send("content", map[string]interface{}{
		"delta": delta,
	})
}
