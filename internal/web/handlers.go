package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guarzo/pkmchase/internal/chase"
	"github.com/guarzo/pkmchase/internal/model"
)

type indexPage struct {
	Sets     []model.Set
	Selected string
	Result   chase.Result
}

func (s *Server) handleIndex(c *gin.Context) {
	sets := s.results.Sets()
	selected := strings.TrimSpace(c.Query("set"))
	if selected == "" && len(sets) > 0 {
		selected = sets[0].ID
	}

	page := indexPage{Sets: sets, Selected: selected}
	if selected != "" && !s.results.Known(selected) {
		page.Result = chase.Result{SetID: selected, Strategy: s.results.Strategy(), Notice: chase.NoticeUnsupported}
		c.HTML(http.StatusNotFound, "index.tmpl", page)
		return
	}
	if selected != "" {
		page.Result = s.results.Top(c.Request.Context(), selected, s.results.DefaultLimit())
	}
	c.HTML(http.StatusOK, "index.tmpl", page)
}

func (s *Server) handleSets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sets": s.results.Sets()})
}

func (s *Server) handleTop(c *gin.Context) {
	limit, err := parseLimit(c.Query("limit"), s.results.DefaultLimit())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setID := c.Param("id")
	if !s.results.Known(setID) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unsupported set %q", setID), "notice": chase.NoticeUnsupported})
		return
	}
	c.JSON(http.StatusOK, s.results.Top(c.Request.Context(), setID, limit))
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{
		"status":   "ok",
		"strategy": s.results.Strategy(),
	}
	if cs, ok := s.results.(cacheStatus); ok {
		body["cache"] = cs.Status()
	}
	c.JSON(http.StatusOK, body)
}

// parseLimit reads ?limit; empty means def.
func parseLimit(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxLimit {
		return 0, fmt.Errorf("limit must be an integer between 1 and %d", MaxLimit)
	}
	return n, nil
}
