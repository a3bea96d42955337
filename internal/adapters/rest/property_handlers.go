package rest

import (
	"net/http"
	"property-service/internal/constants"
	"property-service/internal/core/port/usecases_port"
	"property-service/internal/core/validation"

	"github.com/go-chi/chi/v5"
)

type PropertyHandler struct {
	validator   *validation.Validator
	findUC      usecases_port.FindPropertiesUseCase
	featuredUC  usecases_port.FeaturedPropertiesUseCase
	similarUC   usecases_port.SimilarPropertiesUseCase
	detailsUC   usecases_port.GetPropertyDetailsUseCase
	countUC     usecases_port.CountByTypeUseCase
	bestUC      usecases_port.BestPropertiesUseCase
	errResponse *ErrorResponder
}

type PropertyUseCases struct {
	Find     usecases_port.FindPropertiesUseCase
	Featured usecases_port.FeaturedPropertiesUseCase
	Similar  usecases_port.SimilarPropertiesUseCase
	Details  usecases_port.GetPropertyDetailsUseCase
	Count    usecases_port.CountByTypeUseCase
	Best     usecases_port.BestPropertiesUseCase
}

func NewPropertyHandler(validator *validation.Validator, ucs PropertyUseCases, errResponse *ErrorResponder) *PropertyHandler {
	return &PropertyHandler{
		validator:   validator,
		findUC:      ucs.Find,
		featuredUC:  ucs.Featured,
		similarUC:   ucs.Similar,
		detailsUC:   ucs.Details,
		countUC:     ucs.Count,
		bestUC:      ucs.Best,
		errResponse: errResponse,
	}
}

// FindAll обрабатывает GET /property и GET /property/{city}
func (h *PropertyHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	query, err := h.validator.List(r.Context(), r.URL.Query(), chi.URLParam(r, "city"))
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}

	result, err := h.findUC.Execute(r.Context(), query)
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}
	RespondWithData(w, result, constants.MessageFindAll)
}

// Search обрабатывает GET /property/search[/{city}]
func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, err := h.validator.Search(r.Context(), r.URL.Query(), chi.URLParam(r, "city"))
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}

	result, err := h.findUC.Execute(r.Context(), query)
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}
	RespondWithData(w, result, constants.MessageSearch)
}

// FindOne обрабатывает GET /property/{id}; отсутствующий объект дает пустой список
func (h *PropertyHandler) FindOne(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParsePropertyID(chi.URLParam(r, "id"))
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}

	details, err := h.detailsUC.Execute(r.Context(), id)
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}
	RespondWithData(w, details, constants.MessageFindOne)
}

// Count обрабатывает GET /property/count[/{city}]
func (h *PropertyHandler) Count(w http.ResponseWriter, r *http.Request) {
	filters, err := h.validator.Filters(r.Context(), r.URL.Query(), chi.URLParam(r, "city"))
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}

	counts, err := h.countUC.Execute(r.Context(), filters)
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}
	RespondWithData(w, counts, constants.MessageCount)
}

func (h *PropertyHandler) Featured(w http.ResponseWriter, r *http.Request) {
	purpose, page, err := h.validator.Featured(r.Context(), r.URL.Query())
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}

	result, err := h.featuredUC.Execute(r.Context(), purpose, page)
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}
	RespondWithData(w, result, constants.MessageFeatured)
}

func (h *PropertyHandler) Similar(w http.ResponseWriter, r *http.Request) {
	query, err := h.validator.Similar(r.Context(), r.URL.Query())
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}

	result, err := h.similarUC.Execute(r.Context(), query)
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}
	RespondWithData(w, result, constants.MessageSimilar)
}

// Best обрабатывает GET /property/best[/{city}]
func (h *PropertyHandler) Best(w http.ResponseWriter, r *http.Request) {
	query, err := h.validator.Best(r.Context(), r.URL.Query(), chi.URLParam(r, "city"))
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}

	result, err := h.bestUC.Execute(r.Context(), query)
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}
	RespondWithData(w, result, constants.MessageBest)
}
