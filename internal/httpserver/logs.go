package httpserver

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/secdash/internal/export"
	"github.com/tinytelemetry/secdash/internal/ingest"
	"github.com/tinytelemetry/secdash/internal/logsource"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
	defaultFileName  = "upload.csv"
)

// handleUpload accepts a multipart "file" field or a raw request body.
func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+4096)

	name := c.Query("name")
	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			s.uploadReadError(c, err)
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(f)
		body = f
		if name == "" {
			name = fh.Filename
		}
	}
	if name == "" {
		name = defaultFileName
	}

	data, err := logsource.ReadAll(c.Request.Context(), body, s.maxUpload)
	if err != nil {
		s.uploadReadError(c, err)
		return
	}

	report, err := s.session.Load(name, data)
	if err != nil {
		switch {
		case ingest.IsFormatError(err):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error(), "kind": "format", "report": report})
		case errors.Is(err, ingest.ErrNoRecords):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "kind": "empty", "report": report})
		default:
			log.Printf("httpserver: load %s failed: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (s *Server) uploadReadError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || errors.Is(err, logsource.ErrTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds upload limit", "limit": s.maxUpload})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload: " + err.Error()})
}

type pagination struct {
	Limit  int
	Offset int
}

func parsePagination(c *gin.Context) pagination {
	p := pagination{Limit: defaultPageLimit}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		p.Limit = min(v, maxPageLimit)
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		p.Offset = v
	}
	return p
}

func paginate[T any](items []T, p pagination) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := min(p.Offset+p.Limit, len(items))
	return items[p.Offset:end]
}

func (s *Server) handleListLogs(c *gin.Context) {
	term := c.Query("q")
	filtered := s.session.Filter(term)
	p := parsePagination(c)

	c.JSON(http.StatusOK, gin.H{
		"records": paginate(filtered, p),
		"matched": len(filtered),
		"total":   len(s.session.Records()),
		"limit":   p.Limit,
		"offset":  p.Offset,
		"q":       term,
	})
}

func (s *Server) handleExport(c *gin.Context) {
	records := s.session.Filter(c.Query("q"))
	name := export.FileName(s.now())

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", export.ContentType)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, records); err != nil {
		log.Printf("httpserver: export failed: %v", err)
	}
}
