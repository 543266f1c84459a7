package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/regiontrim/internal/regionfs"
	"github.com/samcharles93/regiontrim/pkg/anvil"
)

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	b, err := json.Marshal(map[string]errorBody{"error": {Message: msg, Type: errType}})
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func writeFailure(c *echo.Context, err error) error {
	status, errType := failureStatus(err)
	msg := err.Error()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		msg = "region not found"
	case errors.Is(err, anvil.ErrChunkAbsent):
		msg = "chunk not present"
	}
	return writeError(c, status, errType, msg)
}

func dimensionParam(c *echo.Context) (regionfs.Dimension, error) {
	name := c.QueryParam("dim")
	d, ok := regionfs.LookupDimension(name)
	if !ok {
		return regionfs.Dimension{}, badParam("dim", name, "unknown dimension")
	}
	return d, nil
}

func regionParam(c *echo.Context) (string, error) {
	name := c.Param("name")
	if !regionfs.ValidName(name) {
		return "", badParam("name", name, "not a region file name")
	}
	return name, nil
}

// coordParams reads :x and :z, which must both lie in [0,32).
func coordParams(c *echo.Context) (anvil.Coord, error) {
	var out anvil.Coord
	for _, p := range []struct {
		name string
		dst  *int
	}{{"x", &out.X}, {"z", &out.Z}} {
		v, err := strconv.Atoi(c.Param(p.name))
		if err != nil || v < 0 || v >= anvil.ChunksPerSide {
			return anvil.Coord{}, badParam(p.name, c.Param(p.name), fmt.Sprintf("want an integer in [0,%d)", anvil.ChunksPerSide))
		}
		*p.dst = v
	}
	return out, nil
}
