package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/drainline/pkg/buildinfo"
	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/errors"
	"github.com/matzehuels/drainline/pkg/geometry"
	projectio "github.com/matzehuels/drainline/pkg/io"
	"github.com/matzehuels/drainline/pkg/pipeline"
	"github.com/matzehuels/drainline/pkg/sizing"
)

// maxBodyBytes caps request bodies, project documents included.
const maxBodyBytes = 1 << 20

// reportFormats are the report formats served over HTTP.
var reportFormats = []string{pipeline.FormatText, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG}

var contentTypes = map[string]string{
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
}

// mutationResponse is returned by every state-changing request.
type mutationResponse struct {
	ID       string            `json:"id,omitempty"`
	Snapshot designer.Snapshot `json:"snapshot"`
}

type createProjectRequest struct {
	Name              string  `json:"name"`
	RainfallIntensity float64 `json:"rainfall_intensity"`
	RoofArea          float64 `json:"roof_area"`
}

type addOutletRequest struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Elevation float64 `json:"elevation"`
}

type dragRequest struct {
	DPX float64 `json:"dpx"`
	DPY float64 `json:"dpy"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
		"state":   string(s.designer.State()),
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.designer.Snapshot())
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, err := s.designer.CreateProject(req.Name, req.RainfallIntensity, req.RoofArea)
	s.respond(w, r, http.StatusCreated, id, err)
}

// handleLoadProject replaces the project with a document in the body.
// The format comes from ?format= and defaults to json.
func (s *Server) handleLoadProject(w http.ResponseWriter, r *http.Request) {
	format, err := projectio.ParseFormat(queryDefault(r, "format", string(projectio.FormatJSON)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, errBadBody(err))
		return
	}
	p, err := projectio.ReadProject(bytes.NewReader(body), format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.designer.Load(p)
	s.respond(w, r, http.StatusOK, id, err)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var patch drainage.ProjectPatch
	if !s.decode(w, r, &patch) {
		return
	}
	s.respond(w, r, http.StatusOK, "", s.designer.UpdateProject(patch))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.designer.Reset()
	s.respond(w, r, http.StatusOK, "", nil)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := projectio.ParseFormat(queryDefault(r, "format", string(projectio.FormatTOML)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := projectio.WriteProject(&buf, s.designer.Snapshot().Project, format); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleAddOutlet(w http.ResponseWriter, r *http.Request) {
	var req addOutletRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, err := s.designer.AddOutlet(req.X, req.Y, req.Elevation)
	s.respond(w, r, http.StatusCreated, id, err)
}

func (s *Server) handleUpdateOutlet(w http.ResponseWriter, r *http.Request) {
	var patch drainage.OutletPatch
	if !s.decode(w, r, &patch) {
		return
	}
	id := chi.URLParam(r, "id")
	s.respond(w, r, http.StatusOK, id, s.designer.UpdateOutlet(id, patch))
}

func (s *Server) handleRemoveOutlet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.respond(w, r, http.StatusOK, id, s.designer.RemoveOutlet(id))
}

func (s *Server) handleDragOutlet(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	s.respond(w, r, http.StatusOK, id, s.designer.DragOutlet(id, req.DPX, req.DPY))
}

func (s *Server) handleGetLimits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.designer.Limits())
}

// handleSetLimits takes partial limits; omitted fields keep their defaults
// and an explicit min_outlets of 0 removes the minimum.
func (s *Server) handleSetLimits(w http.ResponseWriter, r *http.Request) {
	lim := drainage.DefaultLimits()
	if !s.decode(w, r, &lim) {
		return
	}
	if err := s.designer.SetLimits(lim); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.designer.Limits())
}

func (s *Server) handleDiameters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]int{
		"diameters": slices.Collect(sizing.StandardDiameters(s.designer.Limits())),
	})
}

func (s *Server) handleTransformTo(w http.ResponseWriter, r *http.Request) {
	x, err := queryFloat(r, "x")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	y, err := queryFloat(r, "y")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, geometry.Point{X: x, Y: y}.Project())
}

func (s *Server) handleTransformFrom(w http.ResponseWriter, r *http.Request) {
	px, err := queryFloat(r, "px")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	py, err := queryFloat(r, "py")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, geometry.Projected{PX: px, PY: py}.Unproject())
}

// handleReport renders the current snapshot through the pipeline runner,
// so repeated reports of an unchanged design come from its cache.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := queryDefault(r, "format", pipeline.FormatText)
	if !slices.Contains(reportFormats, format) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported report format %q", format))
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	artifacts, err := s.runner.Render(r.Context(), s.designer.Snapshot(), pipeline.Options{
		Limits:   s.designer.Limits(),
		Formats:  []string{format},
		Detailed: detailed,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(artifacts[format])
}

// decode reads a JSON body into v. On failure it writes the error and
// returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, errBadBody(err))
		return false
	}
	return true
}

// respond writes the post-operation snapshot, or the error.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, id string, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, mutationResponse{ID: id, Snapshot: s.designer.Snapshot()})
}

func queryDefault(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}

func queryFloat(r *http.Request, key string) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter %q is required", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter %q: %q is not a number", key, raw)
	}
	if err := errors.ValidateFinite(key, v); err != nil {
		return 0, err
	}
	return v, nil
}
