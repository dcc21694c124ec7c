package downloads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Snatch/internal/download"
	"github.com/hbomb79/Snatch/internal/media"
	"github.com/labstack/echo/v4"
)

type (
	DownloadService interface {
		Download(ctx context.Context, request download.Request) (*download.Result, error)
	}

	downloadRequest struct {
		Url       string `json:"url" validate:"required,url"`
		Format    string `json:"format"`
		CropStart string `json:"crop_start"`
		CropEnd   string `json:"crop_end"`
	}

	Controller struct {
		validate        *validator.Validate
		downloadService DownloadService
		cookiePath      string
	}
)

func New(validate *validator.Validate, downloadService DownloadService, cookiePath string) *Controller {
	return &Controller{validate: validate, downloadService: downloadService, cookiePath: cookiePath}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("/download/", controller.download)
	eg.POST("/upload-cookies/", controller.uploadCookies)
}

// download runs the full pipeline for the requested URL and streams the
// resulting file back as the response body. The per-request workspace
// holding the file is destroyed once the response has been written (or
// as soon as the pipeline fails).
func (controller *Controller) download(ec echo.Context) error {
	request := downloadRequest{}
	if err := ec.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "request body is not valid JSON")
	}
	if err := controller.validate.Struct(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	kind, err := media.ParseKind(request.Format)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := controller.downloadService.Download(ec.Request().Context(), download.Request{
		URL:       request.Url,
		Kind:      kind,
		CropStart: request.CropStart,
		CropEnd:   request.CropEnd,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer result.Release()

	file, err := os.Open(result.Path)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("downloaded file could not be opened: %v", err))
	}
	defer file.Close()

	ec.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	return ec.Stream(http.StatusOK, result.MimeType, file)
}

// uploadCookies persists a multipart file upload as the extractor's
// authentication cookie file, replacing any previous one.
func (controller *Controller) uploadCookies(ec echo.Context) error {
	fileHeader, err := ec.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected multipart upload with a 'file' field")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("uploaded file could not be read: %v", err))
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(controller.cookiePath), os.ModeDir|os.ModePerm); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("cookie file could not be persisted: %v", err))
	}

	dst, err := os.Create(controller.cookiePath)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("cookie file could not be persisted: %v", err))
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("cookie file could not be persisted: %v", err))
	}

	return ec.JSON(http.StatusOK, map[string]string{
		"message":  "cookies uploaded successfully",
		"filename": fileHeader.Filename,
	})
}
