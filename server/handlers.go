package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lisacrebassa/pals-analysis/dataset"
	"github.com/lisacrebassa/pals-analysis/engine"
	"github.com/lisacrebassa/pals-analysis/render"
	"github.com/lisacrebassa/pals-analysis/views"
)

// ExportAll is the /export/:view name that bundles every page.
const ExportAll = "all"

const (
	contentHTML = "text/html; charset=utf-8"
	contentJSON = "application/json; charset=utf-8"
	contentPNG  = "image/png"
	contentXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errSectionNotFound = errors.New("section not found")

func (s *Server) handlePage(c *gin.Context) {
	page, ok := s.render(c, c.Param("view"))
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, page); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentHTML, buf.Bytes())
}

type viewEntry struct {
	Kind  views.Kind `json:"kind"`
	Title string     `json:"title"`
	Page  string     `json:"page"`
	API   string     `json:"api"`
}

func (s *Server) handleViewList(c *gin.Context) {
	entries := make([]viewEntry, 0, len(views.Kinds()))
	for _, k := range views.Kinds() {
		entries = append(entries, viewEntry{
			Kind:  k,
			Title: k.Title(),
			Page:  "/views/" + string(k),
			API:   "/api/views/" + string(k),
		})
	}
	s.writeJSON(c, gin.H{"title": views.PageTitle, "views": entries})
}

func (s *Server) handleViewJSON(c *gin.Context) {
	page, ok := s.render(c, c.Param("view"))
	if !ok {
		return
	}
	s.writeJSON(c, page)
}

func (s *Server) handleChart(c *gin.Context) {
	page, ok := s.render(c, c.Param("view"))
	if !ok {
		return
	}
	id := strings.TrimSuffix(c.Param("section"), ".png")
	section := page.Section(id)
	if section == nil || section.Type != views.SectionChart {
		s.fail(c, errors.Wrapf(errSectionNotFound, "%s/%s", page.Kind, id))
		return
	}

	var buf bytes.Buffer
	if err := render.ChartPNG(&buf, section.Chart, s.size); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentPNG, buf.Bytes())
}

func (s *Server) handleExport(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("view"), ".xlsx")

	var pages []*views.Page
	if name == ExportAll {
		router, err := s.router(c.Request.Context())
		if err != nil {
			s.fail(c, err)
			return
		}
		if pages, err = router.RenderAll(c.Request.Context()); err != nil {
			s.fail(c, err)
			return
		}
	} else {
		page, ok := s.render(c, name)
		if !ok {
			return
		}
		pages = []*views.Page{page}
	}

	var buf bytes.Buffer
	if err := render.WriteXLSX(&buf, pages...); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="palstats-`+name+`.xlsx"`)
	c.Data(http.StatusOK, contentXLSX, buf.Bytes())
}

// ============================================================================
// HELPERS
// ============================================================================

// render resolves the view name and renders it, writing the error response
// itself when it fails.
func (s *Server) render(c *gin.Context, name string) (*views.Page, bool) {
	kind, err := views.ParseKind(name)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	router, err := s.router(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	page, err := router.Render(c.Request.Context(), kind)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return page, true
}

func (s *Server) writeJSON(c *gin.Context, v interface{}) {
	var buf bytes.Buffer
	if err := render.WriteJSON(&buf, v, false); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentJSON, buf.Bytes())
}

// statusFor maps a failure to its HTTP status.
func statusFor(err error) int {
	var uv *views.UnknownViewError
	switch {
	case errors.As(err, &uv), errors.Is(err, errSectionNotFound), errors.Is(err, render.ErrNoData):
		return http.StatusNotFound
	case engine.IsSchemaError(err):
		return http.StatusUnprocessableEntity
	case dataset.IsLoadError(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "status": status})
}
