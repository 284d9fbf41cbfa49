package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ProductPanel/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

const maxDraftBody = 1 << 20

// draftReq carries the user-editable fields. Price is a pointer so a missing
// field is distinguishable from an explicit zero; negative prices are
// accepted as sent.
type draftReq struct {
	ProductName string   `json:"product_name"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Discount    *float64 `json:"discount"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/products", s.list)
	r.Post("/products", s.create)
	r.Put("/products/{id}", s.update)
	r.Delete("/products/{id}", s.remove)

	return r
}

// list responds with the {"data": [...]} envelope.
func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if products == nil {
		products = []Product{}
	}
	kit.WriteData(w, http.StatusOK, products)
}

// create responds with the bare record, no envelope.
func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDraft(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if msg, ok := validateDraft(req); !ok {
		kit.WriteError(w, r, http.StatusBadRequest, msg, nil)
		return
	}

	p := Product{
		ID:          "p_" + uuid.NewString(),
		ProductName: strings.TrimSpace(req.ProductName),
		Category:    strings.TrimSpace(req.Category),
		Price:       *req.Price,
		Discount:    req.Discount,
	}

	if err := s.Store.Create(r.Context(), p); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			kit.WriteError(w, r, http.StatusConflict, "duplicate id", map[string]any{"id": p.ID})
			return
		}
		if s.Log != nil {
			s.Log.Error("create product failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, p)
}

// update responds with the {"data": Product} envelope.
func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := decodeDraft(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if msg, ok := validateDraft(req); !ok {
		kit.WriteError(w, r, http.StatusBadRequest, msg, nil)
		return
	}

	p := Product{
		ID:          id,
		ProductName: strings.TrimSpace(req.ProductName),
		Category:    strings.TrimSpace(req.Category),
		Price:       *req.Price,
		Discount:    req.Discount,
	}

	updated, err := s.Store.Update(r.Context(), p)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("update product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !updated {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	kit.WriteData(w, http.StatusOK, p)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("delete product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !deleted {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (draftReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDraftBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req draftReq
	if err := dec.Decode(&req); err != nil {
		return draftReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return draftReq{}, errors.New("extra data after json object")
	}

	return req, nil
}

func validateDraft(req draftReq) (string, bool) {
	if strings.TrimSpace(req.ProductName) == "" {
		return "product_name required", false
	}
	if strings.TrimSpace(req.Category) == "" {
		return "category required", false
	}
	if req.Price == nil {
		return "price required", false
	}
	return "", true
}
