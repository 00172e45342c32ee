package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/citylink/pkg/buildinfo"
	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/filter"
	"github.com/matzehuels/citylink/pkg/pipeline"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/render"
	"github.com/matzehuels/citylink/pkg/scale"
	"github.com/matzehuels/citylink/pkg/view"
)

// =============================================================================
// Stateless endpoints
// =============================================================================

type healthResponse struct {
	Status   string         `json:"status"`
	Rows     int            `json:"rows"`
	Sessions int            `json:"sessions"`
	Build    buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Rows:     s.store.Len(),
		Sessions: s.sessions.len(),
		Build:    buildinfo.Current(),
	})
}

type recordsResponse struct {
	Records   []record.Record `json:"records"`
	Query     string          `json:"query"`
	Page      int             `json:"page"`
	PageCount int             `json:"page_count"`
	PageSize  int             `json:"page_size"`
	Matches   int             `json:"matches"`
	Label     string          `json:"label"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if err := errors.ValidateQuery(query); err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := intParam(q.Get("page"), 1, "page")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	size, err := intParam(q.Get("page_size"), s.cfg.Dashboard.PageSize, "page_size")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if size < 1 || size > dashboard.MaxPageSize {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "page_size must be in [1, %d], got %d", dashboard.MaxPageSize, size))
		return
	}

	st := filter.New(s.store, size)
	st.SetQuery(query)
	st.SetPage(page)

	records := st.VisibleRecords()
	if records == nil {
		records = []record.Record{}
	}
	writeJSON(w, http.StatusOK, recordsResponse{
		Records:   records,
		Query:     st.Query(),
		Page:      st.Page(),
		PageCount: st.PageCount(),
		PageSize:  st.PageSize(),
		Matches:   st.Matches(),
		Label:     view.PageLabel(st.Page(), st.PageCount()),
	})
}

type topResponse struct {
	Field   record.Field    `json:"field"`
	N       int             `json:"n"`
	Records []record.Record `json:"records"`
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	field := s.cfg.Dashboard.RankField
	if name := q.Get("field"); name != "" {
		f, err := record.ParseField(name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		field = f
	}
	n, err := intParam(q.Get("n"), s.cfg.Dashboard.TopN, "n")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if n < 1 || n > dashboard.MaxTopN {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "n must be in [1, %d], got %d", dashboard.MaxTopN, n))
		return
	}

	writeJSON(w, http.StatusOK, topResponse{
		Field:   field,
		N:       n,
		Records: view.TopN(s.store.All(), field, n),
	})
}

type linearScale struct {
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
}

type scalesResponse struct {
	Size       linearScale `json:"size"`
	Population linearScale `json:"population"`
	Growth     linearScale `json:"growth"`
	Color      struct {
		Domain   []string `json:"domain"`
		Range    []string `json:"range"`
		Fallback string   `json:"fallback"`
	} `json:"color"`
}

func (s *Server) handleScales(w http.ResponseWriter, r *http.Request) {
	set := s.registry.Build(s.store)
	var resp scalesResponse
	resp.Size = linearScale{Domain: [2]float64{0, set.Size.Max}, Range: [2]float64{0, set.Size.MaxRadius}}
	resp.Population = linearScale{Domain: set.Population.Domain, Range: set.Population.Range}
	resp.Growth = linearScale{Domain: set.Growth.Domain, Range: set.Growth.Range}
	resp.Color.Domain = set.Color.Domain
	resp.Color.Range = make([]string, len(set.Color.Domain))
	for i, d := range set.Color.Domain {
		resp.Color.Range[i] = set.Color.Map(d)
	}
	resp.Color.Fallback = scale.Fallback
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 1, "page")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if page < 1 {
		page = 1
	}

	opts := pipeline.Options{
		Source:    "server",
		Formats:   []string{format},
		Highlight: q.Get("highlight"),
		Query:     q.Get("q"),
		Page:      page,
		Title:     q.Get("title"),
		Dashboard: s.cfg.Dashboard,
	}
	artifacts, err := s.runner.Render(r.Context(), s.store, s.hash, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	_, _ = w.Write(artifacts[format])
}

// =============================================================================
// Sessions
// =============================================================================

type sessionResponse struct {
	ID      string          `json:"id"`
	Changed *bool           `json:"changed,omitempty"`
	Frame   dashboard.Frame `json:"frame"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	d := dashboard.NewWithRegistry(s.store, s.cfg.Dashboard, s.registry)
	ss := s.sessions.add(d)
	s.logger.Debug("session created", "id", ss.id)

	w.Header().Set("Location", "/api/sessions/"+ss.id)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: ss.id, Frame: d.Frame()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ss *session) (*bool, error) { return nil, nil })
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.remove(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type highlightRequest struct {
	City string `json:"city"`
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateCity(req.City); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.store.Has(req.City) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "city not found: %q", req.City))
		return
	}
	s.withSession(w, r, func(ss *session) (*bool, error) {
		return nil, ss.d.HoverEnter(req.City)
	})
}

func (s *Server) handleClearHighlight(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ss *session) (*bool, error) {
		return nil, ss.d.HoverLeave()
	})
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateQuery(req.Query); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(ss *session) (*bool, error) {
		ss.d.Search(req.Query)
		return nil, nil
	})
}

type pageRequest struct {
	Page int `json:"page"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(ss *session) (*bool, error) {
		before := ss.d.Filter().Page()
		ss.d.GoToPage(req.Page)
		changed := ss.d.Filter().Page() != before
		return &changed, nil
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ss *session) (*bool, error) {
		changed := ss.d.NextPage()
		return &changed, nil
	})
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ss *session) (*bool, error) {
		changed := ss.d.PrevPage()
		return &changed, nil
	})
}

// withSession runs fn under the session lock and responds with the
// resulting frame.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session) (*bool, error)) {
	ss, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ss.mu.Lock()
	changed, err := fn(ss)
	var frame dashboard.Frame
	if err == nil {
		frame = ss.d.Frame()
	}
	ss.mu.Unlock()

	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: ss.id, Changed: changed, Frame: frame})
}

// intParam parses an optional integer query parameter.
func intParam(raw string, def int, name string) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, raw)
	}
	return v, nil
}
