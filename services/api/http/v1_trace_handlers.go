package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sgostarter/i/l"
	"github.com/spf13/cast"

	"github.com/hplc-lab/trace-viewer/chromatogram"
	"github.com/hplc-lab/trace-viewer/services/api/db"
)

const maxPageLimit = 500

// handleV1ListTraces returns paginated trace metadata
// GET /api/v1/traces?page=1&limit=50
func (s *Server) handleV1ListTraces(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if val, err := cast.ToIntE(p); err == nil && val > 0 {
			page = val
		}
	}

	limit := s.cfg.DefaultLimit
	if limit <= 0 {
		limit = 50
	}
	if v := c.Query("limit"); v != "" {
		if val, err := cast.ToIntE(v); err == nil && val > 0 && val <= maxPageLimit {
			limit = val
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := s.store.ListTraces(ctx, limit, (page-1)*limit)
	if err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("list traces failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result.Traces,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total_count": result.TotalCount,
			"total_pages": (result.TotalCount + limit - 1) / limit,
		},
	})
}

// handleV1GetTrace returns metadata for one trace
// GET /api/v1/traces/:id
func (s *Server) handleV1GetTrace(c *gin.Context) {
	id, ok := traceID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	info, err := s.store.GetTrace(ctx, id)
	if err != nil {
		s.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": info})
}

// handleV1TracePoints returns a trace downsampled for rendering
// GET /api/v1/traces/:id/points?points=1500 (points=0 returns every sample)
func (s *Server) handleV1TracePoints(c *gin.Context) {
	id, ok := traceID(c)
	if !ok {
		return
	}
	target, err := s.targetPoints(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	info, err := s.store.GetTrace(ctx, id)
	if err != nil {
		s.storeError(c, err)
		return
	}
	raw, err := s.loadPoints(ctx, id)
	if err != nil {
		s.storeError(c, err)
		return
	}

	points := raw
	if target > 0 {
		points = chromatogram.Downsample(raw, target)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":     strconv.FormatInt(info.ID, 10),
			"name":   info.Name,
			"points": points,
		},
		"meta": gin.H{
			"raw_count": len(raw),
			"count":     len(points),
			"target":    target,
		},
	})
}

// handleV1UploadTrace parses and stores an exported trace
// POST /api/v1/traces (text/csv body with ?file_name=&name=, or multipart field "file")
func (s *Server) handleV1UploadTrace(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	var (
		body     io.Reader
		fileName string
		name     string
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(uploadStatus(err), gin.H{"error": "multipart field \"file\" is required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		body, fileName, name = f, fh.Filename, c.PostForm("name")
	} else {
		body, fileName, name = c.Request.Body, c.Query("file_name"), c.Query("name")
	}

	hash := sha256.New()
	points, err := chromatogram.ParseReader(io.TeeReader(body, hash))
	if err != nil {
		c.JSON(uploadStatus(err), gin.H{"error": fmt.Sprintf("read upload: %v", err)})
		return
	}
	if len(points) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "upload contains no valid time,value lines"})
		return
	}
	checksum := hex.EncodeToString(hash.Sum(nil))

	if fileName == "" {
		fileName = "upload-" + checksum[:12] + ".csv"
	}
	if name == "" {
		name = chromatogram.TraceName(fileName)
	}

	var injection *int32
	if _, n, ok := chromatogram.InjectionName(fileName); ok {
		v := int32(n)
		injection = &v
	}

	if !chromatogram.IsSorted(points) {
		s.logger.WithFields(l.StringField("file", fileName)).Warn("upload not time ordered, sorting")
		points = chromatogram.SortedCopy(points)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	info, err := s.store.SaveTrace(ctx, db.NewTrace{
		Name:      name,
		FileName:  fileName,
		Injection: injection,
		Checksum:  checksum,
		Points:    points,
	})
	if err != nil {
		s.logger.WithFields(l.ErrorField(err), l.StringField("file", fileName)).Error("save trace failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.points.Delete(pointsCacheKey(info.ID))

	c.JSON(http.StatusCreated, gin.H{"data": info})
}

// handleV1DeleteTrace removes a trace
// DELETE /api/v1/traces/:id
func (s *Server) handleV1DeleteTrace(c *gin.Context) {
	id, ok := traceID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := s.store.DeleteTrace(ctx, id); err != nil {
		s.storeError(c, err)
		return
	}
	s.points.Delete(pointsCacheKey(id))

	c.Status(http.StatusNoContent)
}

// loadPoints returns full-resolution points, cached per trace. Stored traces
// out of time order are sorted before use.
func (s *Server) loadPoints(ctx context.Context, id int64) ([]chromatogram.Point, error) {
	key := pointsCacheKey(id)
	if v, ok := s.points.Get(key); ok {
		if points, ok := v.([]chromatogram.Point); ok {
			return points, nil
		}
	}

	points, err := s.store.LoadPoints(ctx, id)
	if err != nil {
		return nil, err
	}
	if !chromatogram.IsSorted(points) {
		s.logger.WithFields(l.StringField("trace", strconv.FormatInt(id, 10))).Warn("stored trace not time ordered, sorting")
		points = chromatogram.SortedCopy(points)
	}

	s.points.SetDefault(key, points)
	return points, nil
}

// targetPoints reads ?points=, defaulting to the configured budget and
// capping at the configured maximum. Zero disables downsampling.
func (s *Server) targetPoints(c *gin.Context) (int, error) {
	v := c.Query("points")
	if v == "" {
		return s.cfg.DefaultPoints, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid points: %s", v)
	}
	if s.cfg.MaxPoints > 0 && n > s.cfg.MaxPoints {
		n = s.cfg.MaxPoints
	}
	return n, nil
}

func (s *Server) storeError(c *gin.Context, err error) {
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.logger.WithFields(l.ErrorField(err), l.StringField("path", c.FullPath())).Error("store request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func traceID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trace id"})
		return 0, false
	}
	return id, true
}

func pointsCacheKey(id int64) string {
	return "points:" + strconv.FormatInt(id, 10)
}

func uploadStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
