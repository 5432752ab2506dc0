package restserver

import (
	"net/http"

	"github.com/chrissnell/lakealmanac/pkg/almanac"
	"github.com/gorilla/mux"
)

// The almanac changes once a day.
var cacheHeaders = map[string]string{"Cache-Control": "max-age=3600"}

func (c *Controller) load(w http.ResponseWriter, req *http.Request) (*almanac.Document, bool) {
	doc, err := c.store.Load(req.Context())
	if err != nil {
		c.logger.Errorw("error loading almanac", "error", err)
		c.formatter.WriteError(w, req, http.StatusInternalServerError, "error loading almanac")
		return nil, false
	}
	return doc, true
}

func (c *Controller) write(w http.ResponseWriter, req *http.Request, data any) {
	if err := c.formatter.WriteResponse(w, req, data, cacheHeaders); err != nil {
		c.logger.Errorw("error encoding response", "path", req.URL.Path, "error", err)
	}
}

// GetHealth reports liveness
func (c *Controller) GetHealth(w http.ResponseWriter, req *http.Request) {
	c.formatter.WriteResponse(w, req, map[string]string{"status": "ok"}, nil)
}

// GetAlmanac returns the whole document, metadata included
func (c *Controller) GetAlmanac(w http.ResponseWriter, req *http.Request) {
	doc, ok := c.load(w, req)
	if !ok {
		return
	}
	c.write(w, req, doc)
}

// GetMetadata returns the processing metadata
func (c *Controller) GetMetadata(w http.ResponseWriter, req *http.Request) {
	doc, ok := c.load(w, req)
	if !ok {
		return
	}
	meta := doc.Metadata
	if meta.MissedDays == nil {
		meta.MissedDays = []string{}
	}
	c.write(w, req, meta)
}

func (c *Controller) year(w http.ResponseWriter, req *http.Request) (*almanac.AlmanacYear, bool) {
	doc, ok := c.load(w, req)
	if !ok {
		return nil, false
	}
	label := mux.Vars(req)["year"]
	year, found := doc.Almanac[label]
	if !found || year == nil {
		c.formatter.WriteError(w, req, http.StatusNotFound, "no almanac for "+label)
		return nil, false
	}
	return year, true
}

// GetAlmanacYear returns one year label, e.g. 2021 or All
func (c *Controller) GetAlmanacYear(w http.ResponseWriter, req *http.Request) {
	year, ok := c.year(w, req)
	if !ok {
		return
	}
	c.write(w, req, year)
}

// GetAlmanacSeason returns one season of a year label
func (c *Controller) GetAlmanacSeason(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["season"]
	season, valid := almanac.ParseSeason(name)
	if !valid {
		c.formatter.WriteError(w, req, http.StatusNotFound, "unknown season "+name)
		return
	}

	year, ok := c.year(w, req)
	if !ok {
		return
	}
	c.write(w, req, year.Season(season))
}
