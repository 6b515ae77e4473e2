package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cerealdex/cerealdex/cerealdex"
	"github.com/cerealdex/cerealdex/cerealdex/filter"
	"github.com/cerealdex/cerealdex/cerealdex/query"
)

type handlers struct {
	cat       Catalog
	log       *slog.Logger
	maxUpload int64
}

// writeError maps store and engine errors onto status codes. Missing rows
// answer 204 like an empty result.
func (h *handlers) writeError(c *gin.Context, err error) {
	kind, _ := cerealdex.KindOf(err)
	switch kind {
	case cerealdex.ErrInfeasible:
		body := gin.H{"error": "filters contradict each other"}
		var fe *filter.Error
		if errors.As(err, &fe) {
			body["column"] = fe.Column
			body["detail"] = fe.Message
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	case cerealdex.ErrUnknownColumn, cerealdex.ErrInvalidValue, cerealdex.ErrInvalidInput:
		body := gin.H{"error": err.Error()}
		var fe *filter.Error
		if errors.As(err, &fe) && fe.Column != "" {
			body["column"] = fe.Column
		}
		c.JSON(http.StatusBadRequest, body)
	case cerealdex.ErrNotFound:
		c.Status(http.StatusNoContent)
	case cerealdex.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case cerealdex.ErrUnsupportedFile:
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *handlers) health(c *gin.Context) {
	if err := h.cat.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) list(c *gin.Context) {
	all, err := h.cat.All(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if len(all) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, all)
}

func (h *handlers) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cereal, err := h.cat.ByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cereal)
}

// filterCereals reads "col=<op><value>" parameters in the order they were sent
func (h *handlers) filterCereals(c *gin.Context) {
	triples, err := query.ParseRawQuery(c.Request.URL.RawQuery)
	if err != nil {
		filterVerdicts.WithLabelValues(verdictRejected).Inc()
		badRequest(c, err.Error())
		return
	}
	rows, err := h.cat.Filter(c.Request.Context(), triples)
	if err != nil {
		kind, _ := cerealdex.KindOf(err)
		switch kind {
		case cerealdex.ErrInfeasible:
			filterVerdicts.WithLabelValues(verdictInfeasible).Inc()
		case cerealdex.ErrUnknownColumn, cerealdex.ErrInvalidValue:
			filterVerdicts.WithLabelValues(verdictRejected).Inc()
		default:
			filterVerdicts.WithLabelValues(verdictError).Inc()
		}
		h.writeError(c, err)
		return
	}
	if len(rows) == 0 {
		filterVerdicts.WithLabelValues(verdictEmpty).Inc()
		c.Status(http.StatusNoContent)
		return
	}
	filterVerdicts.WithLabelValues(verdictMatched).Inc()
	c.JSON(http.StatusOK, rows)
}

type checkFilter struct {
	Column string `json:"column"`
	Op     string `json:"op"`
	Value  string `json:"value"`
}

type checkRequest struct {
	// Query uses the "col<op>value AND ..." syntax
	Query   string        `json:"query"`
	Filters []checkFilter `json:"filters"`
}

// check runs only the feasibility stage
func (h *handlers) check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	var triples []filter.Triple
	if req.Query != "" {
		parsed, err := query.Parse(req.Query)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		triples = parsed
	}
	for _, f := range req.Filters {
		triples = append(triples, filter.Triple{Column: f.Column, Op: f.Op, Raw: f.Value})
	}

	tr, err := h.cat.Check(triples)
	if err != nil {
		h.writeError(c, err)
		return
	}
	states := make(map[string]string, len(tr.Columns()))
	for _, col := range tr.Columns() {
		if st, ok := tr.State(col); ok {
			states[col] = st.String()
		}
	}
	c.JSON(http.StatusOK, gin.H{"feasible": true, "columns": states})
}

func (h *handlers) getImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	pic, err := h.cat.Picture(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.File(h.cat.PictureFile(pic))
}

// rawFields turns a JSON object into column -> raw string
func rawFields(body map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(body))
	for k, v := range body {
		switch x := v.(type) {
		case string:
			out[k] = x
		case json.Number:
			out[k] = x.String()
		case float64:
			out[k] = strconv.FormatFloat(x, 'f', -1, 64)
		case bool, nil, map[string]any, []any:
			return nil, cerealdex.InvalidInputError(k, "value must be a string or a number")
		default:
			return nil, cerealdex.InvalidInputError(k, "unsupported value")
		}
	}
	return out, nil
}

func decodeObject(c *gin.Context) (map[string]string, bool) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		badRequest(c, "invalid request body")
		return nil, false
	}
	fields, err := rawFields(body)
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	return fields, true
}

func (h *handlers) add(c *gin.Context) {
	fields, ok := decodeObject(c)
	if !ok {
		return
	}
	cereal, err := h.cat.Add(c.Request.Context(), fields)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cereal)
}

func (h *handlers) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fields, ok := decodeObject(c)
	if !ok {
		return
	}
	cereal, err := h.cat.Update(c.Request.Context(), id, fields)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cereal)
}

func (h *handlers) deleteCereal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.cat.Delete(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !deleted {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *handlers) uploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field 'file' is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "cannot read upload")
		return
	}
	defer f.Close()

	pic, err := h.cat.SavePicture(c.Request.Context(), id, fh.Filename, f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pic)
}

// bulk accepts a JSON array of objects, a CSV body or a multipart CSV file
func (h *handlers) bulk(c *gin.Context) {
	ctx := c.Request.Context()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	var (
		res cerealdex.BulkResult
		err error
	)
	switch {
	case mediaType == "application/json":
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		var body []map[string]any
		if err := dec.Decode(&body); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		rows := make([]map[string]string, 0, len(body))
		for _, obj := range body {
			fields, ferr := rawFields(obj)
			if ferr != nil {
				// coercion failures are per row; keep the slot so row numbers line up
				fields = map[string]string{}
			}
			rows = append(rows, fields)
		}
		res, err = h.cat.BulkAdd(ctx, rows)
	case strings.HasPrefix(mediaType, "multipart/"):
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			badRequest(c, "multipart field 'file' is required")
			return
		}
		if !strings.EqualFold(strings.TrimPrefix(filepath.Ext(fh.Filename), "."), "csv") {
			h.writeError(c, cerealdex.UnsupportedFileError(fh.Filename))
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			badRequest(c, "cannot read upload")
			return
		}
		defer f.Close()
		res, err = h.cat.ImportCSV(ctx, f)
	default:
		res, err = h.cat.ImportCSV(ctx, c.Request.Body)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
