package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kuriosis/wallbuilder/pkg/analytics"
	"github.com/kuriosis/wallbuilder/pkg/catalog"
	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/pricing"
	"github.com/kuriosis/wallbuilder/pkg/render"
	"github.com/kuriosis/wallbuilder/pkg/store"
	"github.com/kuriosis/wallbuilder/pkg/storefront"
)

// maxBodyBytes bounds request bodies; documents are small.
const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type saveGalleryRequest struct {
	Name      string          `json:"name"`
	Overwrite bool            `json:"overwrite"`
	Document  json.RawMessage `json:"document"`
}

func (s *Server) handleSaveGallery(w http.ResponseWriter, r *http.Request) {
	var req saveGalleryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	// Round-tripping through the codec validates the document and migrates
	// legacy shapes to the current one before anything is persisted.
	c, err := codec.Unmarshal(req.Document)
	if err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.store.Save(r.Context(), req.Name, codec.ToDocument(c), store.SaveOptions{Overwrite: req.Overwrite})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListGalleries(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"galleries": records})
}

func (s *Server) handleGetGallery(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteGallery(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var opts []render.RenderOption
	if raw := r.URL.Query().Get("scale"); raw != "" {
		if scale, err := strconv.ParseFloat(raw, 64); err == nil {
			opts = append(opts, render.WithScale(scale))
		}
	}

	svg := render.RenderSVG(codec.FromDocument(rec.Document), opts...)
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleGalleryTotal(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.Total(codec.FromDocument(rec.Document)))
}

type resolveRequest struct {
	Variants string `json:"variants"` // encoded variant list
	Size     string `json:"size"`
	Material string `json:"material"`
}

type resolveResponse struct {
	Variant catalog.Variant `json:"variant"`
	Exact   bool            `json:"exact"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	ix := catalog.ParseIndex(req.Variants)
	variant, err := ix.Find(req.Size, req.Material)
	if err == nil {
		writeJSON(w, http.StatusOK, resolveResponse{Variant: variant, Exact: true})
		return
	}

	// Degrade to the first available variant rather than dangling.
	variant, ok := ix.First()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeVariantNotFound, "no variants in list"))
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{Variant: variant, Exact: false})
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	c, err := codec.Unmarshal(body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.Total(c))
}

type shareEncodeRequest struct {
	PageURL  string          `json:"page_url"`
	Document json.RawMessage `json:"document"`
}

func (s *Server) handleShareEncode(w http.ResponseWriter, r *http.Request) {
	var req shareEncodeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := codec.Unmarshal(req.Document)
	if err != nil {
		writeError(w, err)
		return
	}
	link, err := codec.EncodeShareURL(req.PageURL, c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

func (s *Server) handleShareDecode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := codec.DecodeShareURL(req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, codec.ToDocument(c))
}

type cartSubmitRequest struct {
	GalleryID string          `json:"gallery_id"`
	Name      string          `json:"name"`
	Document  json.RawMessage `json:"document"`
}

type cartSubmitResponse struct {
	Added    int               `json:"added"`
	Failures []cartLineFailure `json:"failures,omitempty"`
	Code     errors.Code       `json:"code,omitempty"`
}

type cartLineFailure struct {
	VariantID string `json:"variant_id"`
	Message   string `json:"message"`
}

func (s *Server) handleCartSubmit(w http.ResponseWriter, r *http.Request) {
	if s.shop == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no storefront configured"))
		return
	}

	var req cartSubmitRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	name := req.Name
	var doc codec.Document
	switch {
	case req.GalleryID != "":
		rec, err := s.store.Get(r.Context(), req.GalleryID)
		if err != nil {
			writeError(w, err)
			return
		}
		doc = rec.Document
		if name == "" {
			name = rec.Name
		}
	case len(req.Document) > 0:
		c, err := codec.Unmarshal(req.Document)
		if err != nil {
			writeError(w, err)
			return
		}
		doc = codec.ToDocument(c)
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "provide gallery_id or document"))
		return
	}

	c := codec.FromDocument(doc)
	lines, err := storefront.LinesFromComposition(c, name)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.shop.AddBatch(r.Context(), lines)
	if err != nil {
		writeError(w, err)
		return
	}

	if s.forwarder != nil {
		s.forwarder.Track(r.Context(), analytics.Event{
			Type: analytics.EventAddToCart,
			Properties: map[string]any{
				"lines":       len(lines),
				"added":       len(result.Added),
				"total_minor": pricing.Total(c).TotalMinor,
			},
		})
	}

	resp := cartSubmitResponse{Added: len(result.Added), Code: errors.GetCode(result.Err())}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, cartLineFailure{
			VariantID: f.Line.VariantID,
			Message:   errors.UserMessage(f.Err),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type redirectRequest struct {
	Material        string `json:"material"`
	CurrentPath     string `json:"current_path"`
	AlreadySelected bool   `json:"already_selected"`
}

type redirectResponse struct {
	Redirect bool   `json:"redirect"`
	URL      string `json:"url,omitempty"`
}

func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	var req redirectRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	// A nil resolver resolves to no redirect, so an unconfigured server
	// still answers instead of erroring.
	target, ok := s.redirects.Resolve(req.Material, req.CurrentPath, req.AlreadySelected)
	writeJSON(w, http.StatusOK, redirectResponse{Redirect: ok, URL: target})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var event analytics.Event
	if err := decodeBody(w, r, &event); err != nil {
		writeError(w, err)
		return
	}
	if event.Type == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "event has no type"))
		return
	}
	if s.forwarder != nil {
		s.forwarder.Track(r.Context(), event)
	}
	w.WriteHeader(http.StatusAccepted)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
