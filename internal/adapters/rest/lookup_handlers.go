package rest

import (
	"net/http"
	"property-service/internal/constants"
	"property-service/internal/core/domain"
	"property-service/internal/core/port/usecases_port"
	"property-service/internal/core/validation"
	"strings"

	"github.com/go-chi/chi/v5"
)

type LookupHandler struct {
	validator      *validation.Validator
	suggestUC      usecases_port.SuggestLocationsUseCase
	hierarchyUC    usecases_port.LocationHierarchyUseCase
	dictionariesUC usecases_port.GetDictionariesUseCase
	errResponse    *ErrorResponder
}

func NewLookupHandler(validator *validation.Validator,
	suggestUC usecases_port.SuggestLocationsUseCase,
	hierarchyUC usecases_port.LocationHierarchyUseCase,
	dictionariesUC usecases_port.GetDictionariesUseCase,
	errResponse *ErrorResponder) *LookupHandler {
	return &LookupHandler{
		validator:      validator,
		suggestUC:      suggestUC,
		hierarchyUC:    hierarchyUC,
		dictionariesUC: dictionariesUC,
		errResponse:    errResponse,
	}
}

// Suggestions обрабатывает GET /property/suggestions[/{city}]
func (h *LookupHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	query, err := h.validator.Suggestions(r.URL.Query(), chi.URLParam(r, "city"))
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}

	locations, err := h.suggestUC.Execute(r.Context(), query)
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}
	RespondWithData(w, locations, constants.MessageSuggestions)
}

func (h *LookupHandler) AvailableCities(w http.ResponseWriter, r *http.Request) {
	RespondWithData(w, domain.AvailableCities, constants.MessageAvailableCities)
}

func (h *LookupHandler) Locations(w http.ResponseWriter, r *http.Request) {
	hierarchy, err := h.hierarchyUC.Execute(r.Context())
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}
	RespondWithData(w, hierarchy, constants.MessageLocations)
}

// Dictionaries обрабатывает GET /property/dictionaries?names=cities,purposes
func (h *LookupHandler) Dictionaries(w http.ResponseWriter, r *http.Request) {
	var names []string
	if raw := r.URL.Query().Get("names"); raw != "" {
		names = strings.Split(raw, ",")
	}

	dictionaries, err := h.dictionariesUC.Execute(r.Context(), names)
	if err != nil {
		h.errResponse.Respond(w, r, err)
		return
	}
	RespondWithData(w, dictionaries, constants.MessageDictionaries)
}
