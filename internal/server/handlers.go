package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/matzehuels/violin/pkg/buildinfo"
	"github.com/matzehuels/violin/pkg/dataset"
	verrors "github.com/matzehuels/violin/pkg/errors"
	"github.com/matzehuels/violin/pkg/kernel"
	"github.com/matzehuels/violin/pkg/pipeline"
	"github.com/matzehuels/violin/pkg/source"
	"github.com/matzehuels/violin/pkg/viewmodel"
)

// Response headers set by the view model endpoint.
const (
	HeaderCache       = "X-Violin-Cache"
	HeaderDatasetHash = "X-Violin-Dataset-Hash"
)

// MaxCategoryLimit bounds the category limit a client may request. Zero,
// which the CLI reads as unlimited, is rejected.
const MaxCategoryLimit = 1000

// ViewModelRequest is the body of POST /v1/viewmodel. Exactly one of
// Dataset and Data must be set.
type ViewModelRequest struct {
	Dataset *dataset.Dataset `json:"dataset,omitempty"`
	// Data is raw CSV, TSV or JSON text read with Source.
	Data   string         `json:"data,omitempty"`
	Source source.Options `json:"source"`
	// Options are applied on top of the defaults.
	Options json.RawMessage `json:"options,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type kernelInfo struct {
	Name      string  `json:"name"`
	Silverman float64 `json:"silverman"`
	Bounded   bool    `json:"bounded"`
	Default   bool    `json:"default"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) handleKernels(w http.ResponseWriter, r *http.Request) {
	all := kernel.All()
	out := make([]kernelInfo, len(all))
	for i, k := range all {
		out[i] = kernelInfo{
			Name:      k.Name,
			Silverman: k.Silverman,
			Bounded:   k.Bounded,
			Default:   k.Kind == kernel.Default,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleViewModel(w http.ResponseWriter, r *http.Request) {
	var req ViewModelRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, verrors.Wrap(verrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	ds, err := req.readDataset()
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := req.decodeOptions()
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), ds, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := viewmodel.Marshal(res.ViewModel)
	if err != nil {
		s.writeError(w, verrors.Wrap(verrors.ErrCodeInternal, err, "encode view model"))
		return
	}
	cacheState := "miss"
	if res.CacheHit {
		cacheState = "hit"
	}
	w.Header().Set(HeaderCache, cacheState)
	w.Header().Set(HeaderDatasetHash, res.DatasetHash)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (req *ViewModelRequest) readDataset() (dataset.Dataset, error) {
	switch {
	case req.Dataset != nil && req.Data != "":
		return dataset.Dataset{}, verrors.New(verrors.ErrCodeInvalidInput, "set either dataset or data, not both")
	case req.Dataset != nil:
		return *req.Dataset, nil
	case req.Data != "":
		format := req.Source.Format
		if format == "" {
			format = source.FormatCSV
		}
		if format == source.FormatXLSX {
			return dataset.Dataset{}, verrors.New(verrors.ErrCodeUnsupported, "xlsx data cannot be sent inline")
		}
		return source.Read(strings.NewReader(req.Data), format, req.Source)
	default:
		return dataset.Dataset{}, verrors.New(verrors.ErrCodeInvalidInput, "request has no dataset")
	}
}

func (req *ViewModelRequest) decodeOptions() (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if raw := bytes.TrimSpace(req.Options); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil {
			return opts, verrors.Wrap(verrors.ErrCodeInvalidConfig, err, "decode options")
		}
	}
	if opts.Limit < 1 || opts.Limit > MaxCategoryLimit {
		return opts, verrors.New(verrors.ErrCodeInvalidConfig,
			"category limit must be between 1 and %d, got %d", MaxCategoryLimit, opts.Limit)
	}
	opts.Refresh = req.Refresh
	return opts, nil
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	switch verrors.GetCode(err) {
	case verrors.ErrCodeInvalidInput, verrors.ErrCodeInvalidConfig, verrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case verrors.ErrCodeNotFound, verrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case verrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case verrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case verrors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Code:  string(verrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
