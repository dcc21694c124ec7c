package styles

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hbomb79/Snatch/internal/style"
	"github.com/labstack/echo/v4"
)

type (
	Service interface {
		List() ([]style.Style, error)
		Create(name string, prompt string, imageData string) (style.Style, error)
		Delete(id uuid.UUID) error
		ImagePath(filename string) (string, error)
	}

	createRequest struct {
		Name      string `json:"name" validate:"required"`
		Prompt    string `json:"prompt" validate:"required"`
		ImageData string `json:"imageData" validate:"required"`
	}

	Controller struct {
		validate *validator.Validate
		service  Service
	}
)

func New(validate *validator.Validate, service Service) *Controller {
	return &Controller{validate: validate, service: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("/", controller.list)
	eg.POST("/", controller.create)
	eg.DELETE("/:id/", controller.remove)
	eg.GET("/image/:filename/", controller.image)
}

func (controller *Controller) list(ec echo.Context) error {
	records, err := controller.service.List()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to list styles: %v", err))
	}

	return ec.JSON(http.StatusOK, records)
}

func (controller *Controller) create(ec echo.Context) error {
	request := createRequest{}
	if err := ec.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "request body is not valid JSON")
	}
	if err := controller.validate.Struct(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := controller.service.Create(request.Name, request.Prompt, request.ImageData)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to create style: %v", err))
	}

	return ec.JSON(http.StatusCreated, record)
}

// remove deletes the style with the given id. Unknown (or unparsable)
// ids are treated the same as a successful delete; the operation is
// idempotent by contract.
func (controller *Controller) remove(ec echo.Context) error {
	if id, err := uuid.Parse(ec.Param("id")); err == nil {
		if err := controller.service.Delete(id); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to delete style: %v", err))
		}
	}

	return ec.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (controller *Controller) image(ec echo.Context) error {
	path, err := controller.service.ImagePath(ec.Param("filename"))
	if err != nil {
		if errors.Is(err, style.ErrImageNotFound) {
			return echo.ErrNotFound
		}

		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ec.File(path)
}
