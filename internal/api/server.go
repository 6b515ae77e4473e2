// Package api serves the cereal catalog over HTTP.
package api

import (
	"context"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cerealdex/cerealdex/cerealdex"
	"github.com/cerealdex/cerealdex/cerealdex/filter"
)

// Catalog is the part of *cerealdex.Store the handlers use
type Catalog interface {
	Ping(ctx context.Context) error
	All(ctx context.Context) ([]cerealdex.Cereal, error)
	ByID(ctx context.Context, id int64) (cerealdex.Cereal, error)
	Filter(ctx context.Context, triples []filter.Triple) ([]cerealdex.Cereal, error)
	Check(triples []filter.Triple) (*filter.Tracker, error)
	Add(ctx context.Context, fields map[string]string) (cerealdex.Cereal, error)
	Update(ctx context.Context, id int64, fields map[string]string) (cerealdex.Cereal, error)
	Delete(ctx context.Context, id int64) (bool, error)
	BulkAdd(ctx context.Context, rows []map[string]string) (cerealdex.BulkResult, error)
	ImportCSV(ctx context.Context, r io.Reader) (cerealdex.BulkResult, error)
	Picture(ctx context.Context, cerealID int64) (cerealdex.Picture, error)
	PictureFile(p cerealdex.Picture) string
	SavePicture(ctx context.Context, cerealID int64, filename string, r io.Reader) (cerealdex.Picture, error)
	Authenticate(ctx context.Context, name, password string) (cerealdex.User, error)
}

type Options struct {
	RequireAuth    bool
	Metrics        bool
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewRouter wires every route onto a fresh gin engine
func NewRouter(cat Catalog, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 8 << 20
	}
	h := &handlers{cat: cat, log: opts.Logger, maxUpload: opts.MaxUploadBytes}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(opts.Logger), observeRequests())

	r.GET("/health", h.health)
	if opts.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	g := r.Group("/api/cereals")
	g.GET("/", h.list)
	g.GET("/filter", h.filterCereals)
	g.GET("/getimage/:id", h.getImage)
	g.GET("/:id", h.get)
	g.POST("/check", h.check)

	w := g.Group("")
	if opts.RequireAuth {
		w.Use(BasicAuth(cat))
	}
	w.POST("/add/", h.add)
	w.PUT("/add/:id", h.update)
	w.DELETE("/delete/:id", h.deleteCereal)
	w.POST("/image/:id", h.uploadImage)
	w.POST("/bulk", h.bulk)

	return r
}
