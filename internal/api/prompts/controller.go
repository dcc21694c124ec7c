package prompts

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hbomb79/Snatch/internal/prompt"
	"github.com/labstack/echo/v4"
)

type (
	Service interface {
		List() ([]prompt.Prompt, error)
		Create(name string, text string) (prompt.Prompt, error)
		Delete(id uuid.UUID) error
	}

	createRequest struct {
		Name string `json:"name" validate:"required"`
		Text string `json:"text" validate:"required"`
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
}

func (controller *Controller) list(ec echo.Context) error {
	records, err := controller.service.List()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to list prompts: %v", err))
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

	record, err := controller.service.Create(request.Name, request.Text)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to create prompt: %v", err))
	}

	return ec.JSON(http.StatusCreated, record)
}

func (controller *Controller) remove(ec echo.Context) error {
	if id, err := uuid.Parse(ec.Param("id")); err == nil {
		if err := controller.service.Delete(id); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to delete prompt: %v", err))
		}
	}

	return ec.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
