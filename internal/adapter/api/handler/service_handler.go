package handler

import (
	"github.com/labstack/echo/v4"

	"promostore/internal/usecase"
	"promostore/pkg/response"
)

type ServiceHandler struct {
	catalogUseCase *usecase.CatalogUseCase
}

func NewServiceHandler(catalogUseCase *usecase.CatalogUseCase) *ServiceHandler {
	return &ServiceHandler{
		catalogUseCase: catalogUseCase,
	}
}

type serviceRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" validate:"min=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	IsActive    bool    `json:"is_active"`
}

// ListServices is public; admins see inactive entries too.
func (h *ServiceHandler) ListServices(c echo.Context) error {
	isAdmin, _ := c.Get("is_admin").(bool)

	services, err := h.catalogUseCase.ListServices(c.Request().Context(), isAdmin)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, services)
}

func (h *ServiceHandler) GetService(c echo.Context) error {
	service, err := h.catalogUseCase.GetService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, service)
}

func (h *ServiceHandler) CreateService(c echo.Context) error {
	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	service, err := h.catalogUseCase.CreateService(c.Request().Context(), usecase.ServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, service)
}

func (h *ServiceHandler) UpdateService(c echo.Context) error {
	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	service, err := h.catalogUseCase.UpdateService(c.Request().Context(), c.Param("id"), usecase.ServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, service)
}

func (h *ServiceHandler) DeleteService(c echo.Context) error {
	if err := h.catalogUseCase.DeleteService(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Service deleted"})
}
