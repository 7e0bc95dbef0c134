package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hplc-lab/trace-viewer/chromatogram"
)

const maxOverlayTraces = 16

// handleV1Overlay aligns several traces on the time axis of the first one
// GET /api/v1/overlay?ids=11,12,13&points=1500
func (s *Server) handleV1Overlay(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}
	if len(ids) > maxOverlayTraces {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many traces, max " + strconv.Itoa(maxOverlayTraces)})
		return
	}

	target, err := s.targetPoints(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
	defer cancel()

	traces := make([]chromatogram.Trace, 0, len(ids))
	omitted := make([]string, 0)
	for _, id := range ids {
		info, err := s.store.GetTrace(ctx, id)
		if err != nil {
			s.storeError(c, err)
			return
		}
		points, err := s.loadPoints(ctx, id)
		if err != nil {
			s.storeError(c, err)
			return
		}
		// Empty traces are left off the chart.
		if len(points) == 0 {
			omitted = append(omitted, strconv.FormatInt(id, 10))
			continue
		}
		if target > 0 {
			points = chromatogram.Downsample(points, target)
		}
		traces = append(traces, chromatogram.Trace{Name: info.Name, Points: points})
	}

	traces = chromatogram.DistinctNames(traces)
	overlay := chromatogram.Align(traces)

	series := make([]string, len(traces))
	for i, tr := range traces {
		series[i] = tr.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"rows":   overlay.Rows,
			"y_min":  overlay.YMin,
			"y_max":  overlay.YMax,
			"series": series,
		},
		"meta": gin.H{
			"primary": firstOrEmpty(series),
			"count":   len(overlay.Rows),
			"target":  target,
			"omitted": omitted,
		},
	})
}

// parseIDList splits a comma-separated id list, ignoring empty entries.
func parseIDList(raw string) ([]int64, error) {
	ids := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid trace id: %s", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func firstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
