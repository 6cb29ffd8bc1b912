package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/domain/entity"
	"roomlink/internal/usecase"
	"roomlink/pkg/errors"
	"roomlink/pkg/response"
	"roomlink/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type listingRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=120"`
	Description string   `json:"description" validate:"max=5000"`
	Price       float64  `json:"price" validate:"gt=0"`
	Currency    string   `json:"currency" validate:"omitempty,len=3"`
	Location    string   `json:"location" validate:"required,max=200"`
	Images      []string `json:"images" validate:"omitempty,max=10,dive,url"`
	Amenities   []string `json:"amenities" validate:"omitempty,max=50"`
	HouseRules  []string `json:"house_rules" validate:"omitempty,max=50"`
}

type updateListingRequest struct {
	Title       string   `json:"title" validate:"omitempty,min=3,max=120"`
	Description string   `json:"description" validate:"max=5000"`
	Price       float64  `json:"price" validate:"gte=0"`
	Currency    string   `json:"currency" validate:"omitempty,len=3"`
	Location    string   `json:"location" validate:"max=200"`
	Images      []string `json:"images" validate:"omitempty,max=10,dive,url"`
	Amenities   []string `json:"amenities" validate:"omitempty,max=50"`
	HouseRules  []string `json:"house_rules" validate:"omitempty,max=50"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req listingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), middleware.UserID(c), usecase.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Location:    req.Location,
		Images:      req.Images,
		Amenities:   req.Amenities,
		HouseRules:  req.HouseRules,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, listing)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.GetListing(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	filter := entity.ListingFilter{
		Location: c.QueryParam("location"),
		PosterID: c.QueryParam("posterId"),
	}

	var err error
	if filter.MinPrice, err = parsePrice(c.QueryParam("minPrice")); err != nil {
		return response.Error(c, errors.BadRequest("Invalid minPrice", err))
	}
	if filter.MaxPrice, err = parsePrice(c.QueryParam("maxPrice")); err != nil {
		return response.Error(c, errors.BadRequest("Invalid maxPrice", err))
	}
	filter.IncludeHidden, _ = strconv.ParseBool(c.QueryParam("includeHidden"))

	pagination := utils.GetPaginationParams(c)
	items, total, err := h.listingUseCase.ListListings(c.Request().Context(), middleware.UserID(c), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

func parsePrice(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req updateListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"), usecase.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Location:    req.Location,
		Images:      req.Images,
		Amenities:   req.Amenities,
		HouseRules:  req.HouseRules,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

type visibilityRequest struct {
	Hidden *bool `json:"hidden" validate:"required"`
}

func (h *ListingHandler) SetVisibility(c echo.Context) error {
	var req visibilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.listingUseCase.SetHidden(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"), *req.Hidden); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"id":     c.Param("id"),
		"hidden": *req.Hidden,
	})
}

func (h *ListingHandler) UploadImage(c echo.Context) error {
	src, contentType, err := openImage(c, "file")
	if err != nil {
		return response.Error(c, err)
	}
	defer closeQuietly(src)

	listing, err := h.listingUseCase.UploadImage(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"), src, contentType)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}
