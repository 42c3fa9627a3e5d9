// Catalog HTTP handlers.
//
// This file exposes the catalog endpoints:
//   - GET    /               (health)
//   - POST   /post           (create post)
//   - GET    /dog?kind=      (list by kind)
//   - GET    /dog/{pk}       (get)
//   - POST   /dog            (create)
//   - PATCH  /dog/{pk}       (update)
//
// Handlers are transport-thin: they validate input, call the catalog service,
// and translate service errors into 422 validation details.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-dog-catalog/internal/domain"
	"github.com/tbourn/go-dog-catalog/internal/services"
)

// CatalogService defines the catalog operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CatalogService interface {
	ListDogs(ctx context.Context, kind domain.Kind) ([]domain.Dog, error)
	GetDog(ctx context.Context, pk int) (domain.Dog, error)
	CreateDog(ctx context.Context, d domain.Dog) (domain.Dog, error)
	UpdateDog(ctx context.Context, pk int, d domain.Dog) (domain.Dog, error)
	CreatePost(ctx context.Context) (domain.Post, error)
}

// Handlers groups the catalog HTTP endpoints.
type Handlers struct {
	catalog CatalogService
}

// New constructs and returns a Handlers instance bound to the given service.
func New(catalog CatalogService) *Handlers {
	return &Handlers{catalog: catalog}
}

// DogRequest is the JSON payload for creating or updating a dog.
type DogRequest struct {
	Name *string      `json:"name" binding:"required" example:"Rex"`
	PK   *IntOrString `json:"pk"   binding:"required" swaggertype:"integer" example:"3"`
	Kind *string      `json:"kind" binding:"required" example:"terrier" enums:"terrier,bulldog,dalmatian"`
}

// IntOrString is an integer that also decodes from a JSON string of digits,
// e.g. "12". Anything else fails as a *json.UnmarshalTypeError.
type IntOrString int

// UnmarshalJSON implements json.Unmarshaler.
func (v *IntOrString) UnmarshalJSON(b []byte) error {
	raw := string(b)
	kind := "number"
	if strings.HasPrefix(raw, `"`) {
		kind = "string"
		unq, err := strconv.Unquote(raw)
		if err != nil {
			return &json.UnmarshalTypeError{Value: kind, Type: reflect.TypeOf(0)}
		}
		raw = strings.TrimSpace(unq)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if raw == "null" {
			return nil
		}
		return &json.UnmarshalTypeError{Value: kind, Type: reflect.TypeOf(0)}
	}
	*v = IntOrString(n)
	return nil
}

// Health godoc
// @ID          health
// @Summary     Health check
// @Description Returns the JSON string "OK" when the server is up.
// @Tags        Health
// @Produce     json
// @Success     200  {string}  string  "OK"
// @Router      / [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, "OK")
}

// CreatePost godoc
// @ID          createPost
// @Summary     Create a post
// @Description Appends a post with the next id and the current Unix timestamp.
// @Tags        Posts
// @Produce     json
// @Success     200  {object}  domain.Post
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /post [post]
func (h *Handlers) CreatePost(c *gin.Context) {
	p, err := h.catalog.CreatePost(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// ListDogs godoc
// @ID          listDogs
// @Summary     List dogs by kind
// @Description Returns the dogs of one kind in insertion order. Results may be up to one cache TTL old.
// @Tags        Dogs
// @Produce     json
// @Param       kind  query  string  true  "Dog kind"  Enums(terrier, bulldog, dalmatian)
// @Success     200  {array}   domain.Dog
// @Failure     422  {object}  handlers.ValidationResponse  "Missing or unknown kind"
// @Router      /dog [get]
func (h *Handlers) ListDogs(c *gin.Context) {
	raw, present := c.GetQuery("kind")
	if !present {
		unprocessable(c, ValidationDetail{Loc: []string{"query", "kind"}, Msg: msgFieldRequired, Type: TypeMissing})
		return
	}
	kind, err := domain.ParseKind(raw)
	if err != nil {
		unprocessable(c, ValidationDetail{Loc: []string{"query", "kind"}, Msg: msgBadKind, Type: TypeEnum})
		return
	}

	dogs, err := h.catalog.ListDogs(c.Request.Context(), kind)
	if err != nil {
		h.serviceError(c, "query", err)
		return
	}
	ok(c, http.StatusOK, dogs)
}

// GetDog godoc
// @ID          getDog
// @Summary     Get a dog by pk
// @Description Returns one dog. Results may be up to one cache TTL old.
// @Tags        Dogs
// @Produce     json
// @Param       pk  path  int  true  "Dog pk"
// @Success     200  {object}  domain.Dog
// @Failure     422  {object}  handlers.ValidationResponse  "Non-integer pk or unknown dog"
// @Router      /dog/{pk} [get]
func (h *Handlers) GetDog(c *gin.Context) {
	pk, good := pathPK(c)
	if !good {
		return
	}
	d, err := h.catalog.GetDog(c.Request.Context(), pk)
	if err != nil {
		h.serviceError(c, "body", err)
		return
	}
	ok(c, http.StatusOK, d)
}

// CreateDog godoc
// @ID          createDog
// @Summary     Create a dog
// @Description Inserts a dog. The pk must not belong to another dog.
// @Tags        Dogs
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.DogRequest  true  "Dog"
// @Success     200  {object}  domain.Dog
// @Failure     422  {object}  handlers.ValidationResponse  "Invalid body or duplicate pk"
// @Router      /dog [post]
func (h *Handlers) CreateDog(c *gin.Context) {
	d, good := bindDog(c)
	if !good {
		return
	}
	out, err := h.catalog.CreateDog(c.Request.Context(), d)
	if err != nil {
		h.serviceError(c, "body", err)
		return
	}
	ok(c, http.StatusOK, out)
}

// UpdateDog godoc
// @ID          updateDog
// @Summary     Update a dog
// @Description Replaces the dog stored under {pk}. The body pk may differ from {pk} if it is free.
// @Tags        Dogs
// @Accept      json
// @Produce     json
// @Param       pk    path  int                  true  "Current dog pk"
// @Param       body  body  handlers.DogRequest  true  "New dog data"
// @Success     200  {object}  domain.Dog
// @Failure     422  {object}  handlers.ValidationResponse  "Invalid body, unknown pk or duplicate pk"
// @Router      /dog/{pk} [patch]
func (h *Handlers) UpdateDog(c *gin.Context) {
	pk, good := pathPK(c)
	if !good {
		return
	}
	d, good := bindDog(c)
	if !good {
		return
	}
	out, err := h.catalog.UpdateDog(c.Request.Context(), pk, d)
	if err != nil {
		h.serviceError(c, "body", err)
		return
	}
	ok(c, http.StatusOK, out)
}

// serviceError maps service errors onto 422 details located under src.
// Anything unrecognized is a 500.
func (h *Handlers) serviceError(c *gin.Context, src string, err error) {
	var fe *services.FieldError
	field := "pk"
	if errors.As(err, &fe) {
		field = fe.Field
	}
	loc := []string{src, field}

	switch {
	case errors.Is(err, services.ErrDuplicateKey):
		unprocessable(c, ValidationDetail{Loc: loc, Msg: services.ErrDuplicateKey.Error(), Type: TypeDuplicate})
	case errors.Is(err, services.ErrNotFound):
		unprocessable(c, ValidationDetail{Loc: loc, Msg: services.ErrNotFound.Error(), Type: TypeNotFound})
	case errors.Is(err, services.ErrInvalidDog) && field == "name":
		unprocessable(c, ValidationDetail{Loc: loc, Msg: msgEmptyName, Type: TypeEmptyString})
	case errors.Is(err, services.ErrInvalidDog):
		unprocessable(c, ValidationDetail{Loc: loc, Msg: msgBadKind, Type: TypeEnum})
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// pathPK parses the {pk} segment or writes a 422.
func pathPK(c *gin.Context) (int, bool) {
	pk, err := strconv.Atoi(c.Param("pk"))
	if err != nil {
		unprocessable(c, ValidationDetail{Loc: []string{"path", "pk"}, Msg: msgNotInteger, Type: TypeInteger})
		return 0, false
	}
	return pk, true
}

// bindDog decodes and checks a DogRequest, writing a 422 that lists every
// rejected field when it is unusable.
func bindDog(c *gin.Context) (domain.Dog, bool) {
	var req DogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, bindDetails(err)...)
		return domain.Dog{}, false
	}

	var details []ValidationDetail
	if strings.TrimSpace(*req.Name) == "" {
		details = append(details, ValidationDetail{Loc: []string{"body", "name"}, Msg: msgEmptyName, Type: TypeEmptyString})
	}
	kind, err := domain.ParseKind(*req.Kind)
	if err != nil {
		details = append(details, ValidationDetail{Loc: []string{"body", "kind"}, Msg: msgBadKind, Type: TypeEnum})
	}
	if len(details) > 0 {
		unprocessable(c, details...)
		return domain.Dog{}, false
	}
	return domain.Dog{Name: *req.Name, PK: int(*req.PK), Kind: kind}, true
}

// bindDetails translates a gin binding error into validation details.
func bindDetails(err error) []ValidationDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]ValidationDetail, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, ValidationDetail{
				Loc:  []string{"body", strings.ToLower(fe.Field())},
				Msg:  msgFieldRequired,
				Type: TypeMissing,
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "pk" {
			return []ValidationDetail{{Loc: []string{"body", field}, Msg: msgNotInteger, Type: TypeInteger}}
		}
		if field != "" {
			return []ValidationDetail{{Loc: []string{"body", field}, Msg: msgNotString, Type: TypeString}}
		}
	}

	return []ValidationDetail{{Loc: []string{"body"}, Msg: msgBadJSON, Type: TypeJSONDecode}}
}
