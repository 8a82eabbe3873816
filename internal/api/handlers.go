package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/matzehuels/steamvent/pkg/buildinfo"
	errs "github.com/matzehuels/steamvent/pkg/errors"
	netio "github.com/matzehuels/steamvent/pkg/io"
	"github.com/matzehuels/steamvent/pkg/network"
	"github.com/matzehuels/steamvent/pkg/network/distance"
	"github.com/matzehuels/steamvent/pkg/pipeline"
)

// networkRequest is the part shared by all request bodies.
type networkRequest struct {
	Valves []network.Valve `json:"valves,omitempty"`
	Text   string          `json:"text,omitempty"`
}

type solveRequest struct {
	networkRequest
	Origin  string `json:"origin,omitempty"`
	Budget  *int   `json:"budget,omitempty"`
	TopK    int    `json:"top_k,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

type distancesResponse struct {
	NetworkHash string         `json:"network_hash"`
	Cached      bool           `json:"cached"`
	Distances   distance.Table `json:"distances"`
}

type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := req.network()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Origin:  req.Origin,
		Budget:  pipeline.DefaultBudget,
		TopK:    req.TopK,
		Refresh: req.Refresh,
		Logger:  s.Logger,
	}
	if req.Budget != nil {
		opts.Budget = *req.Budget
	}

	res, err := s.Runner.Execute(r.Context(), n, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) distances(w http.ResponseWriter, r *http.Request) {
	var req networkRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := req.network()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	table, hit, err := s.Runner.Distances(r.Context(), n, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, _ := pipeline.NetworkHash(n)
	writeJSON(w, http.StatusOK, distancesResponse{NetworkHash: hash, Cached: hit, Distances: table})
}

// network builds the request's network from whichever form it carries.
func (req networkRequest) network() (*network.Network, error) {
	switch {
	case req.Text != "" && len(req.Valves) > 0:
		return nil, errs.New(errs.ErrCodeInvalidInput, "set either valves or text, not both")
	case req.Text != "":
		return netio.ReadText(strings.NewReader(req.Text))
	case len(req.Valves) > 0:
		for _, v := range req.Valves {
			if err := errs.ValidateValveID(v.ID); err != nil {
				return nil, err
			}
		}
		return network.New(req.Valves)
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "request has no network")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.Wrap(errs.ErrCodeTooLarge, err, "request body too large")
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidNetwork, errs.ErrCodeInvalidBudget,
		errs.ErrCodeInvalidValveID, errs.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errs.ErrCodeUnknownValve, errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeTooLarge:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		// Client went away, or the timeout middleware answers 504.
		return
	}
	err = pipeline.Classify(err)
	code := errs.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errs.Detail(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
