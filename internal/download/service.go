package download

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hbomb79/Snatch/internal/extractor"
	"github.com/hbomb79/Snatch/internal/media"
	"github.com/hbomb79/Snatch/internal/trim"
	"github.com/hbomb79/Snatch/internal/workspace"
	"github.com/hbomb79/Snatch/pkg/logger"
)

var log = logger.Get("DownloadServ")

type (
	// Request is one download: a source URL, the output kind, and the
	// optional crop window. Transient; nothing about it is persisted.
	Request struct {
		URL       string
		Kind      media.Kind
		CropStart string
		CropEnd   string
	}

	// Result is the outcome of a successful pipeline run. The file at
	// Path lives inside a per-request workspace which is only removed
	// when Release is called, so the caller must invoke Release once
	// it has finished streaming the file.
	Result struct {
		Path      string
		Filename  string
		MimeType  string
		workspace *workspace.Workspace
	}

	// Announcer receives lifecycle notifications for downloads. The
	// REST gateway uses this to push updates to connected websocket
	// clients; tests typically install a recording implementation.
	Announcer interface {
		AnnounceDownloadStarted(id uuid.UUID, url string)
		AnnounceDownloadComplete(id uuid.UUID, path string)
		AnnounceDownloadFailed(id uuid.UUID, failure error)
	}

	// Service runs the download pipeline: workspace allocation,
	// extraction, optional trimming. Extraction and trimming are
	// blocking external-process calls with no timeout or concurrency
	// cap; each HTTP request drives one pipeline run to completion.
	Service struct {
		workspaces *workspace.Manager
		extractor  extractor.Extractor
		trimmer    trim.Trimmer
		announcer  Announcer
	}
)

// Release destroys the workspace holding the result file. Safe to call
// after the file has been fully streamed to the client.
func (result *Result) Release() {
	result.workspace.Destroy()
}

func NewService(workspaces *workspace.Manager, extractor extractor.Extractor, trimmer trim.Trimmer, announcer Announcer) *Service {
	if announcer == nil {
		announcer = noopAnnouncer{}
	}

	return &Service{workspaces: workspaces, extractor: extractor, trimmer: trimmer, announcer: announcer}
}

// Download runs the full pipeline for one request. On any failure the
// request's workspace is destroyed before the error is returned; on
// success the workspace survives until the caller invokes Release on
// the result.
func (service *Service) Download(ctx context.Context, request Request) (*Result, error) {
	ws, err := service.workspaces.Create()
	if err != nil {
		return nil, err
	}

	result, err := service.run(ctx, request, ws)
	if err != nil {
		ws.Destroy()
		service.announcer.AnnounceDownloadFailed(ws.ID(), err)
		return nil, err
	}

	return result, nil
}

func (service *Service) run(ctx context.Context, request Request, ws *workspace.Workspace) (*Result, error) {
	service.announcer.AnnounceDownloadStarted(ws.ID(), request.URL)

	sourcePath, err := service.extractor.Extract(ctx, extractor.Request{URL: request.URL, Kind: request.Kind}, ws.Dir())
	if err != nil {
		return nil, err
	}

	finalPath := sourcePath
	if request.CropStart != "" || request.CropEnd != "" {
		trimmedPath, err := service.trimmer.Trim(ctx, trim.Job{
			InputPath: sourcePath,
			Kind:      request.Kind,
			Start:     request.CropStart,
			End:       request.CropEnd,
		})
		if err != nil {
			return nil, err
		}

		finalPath = trimmedPath
	}

	log.Emit(logger.SUCCESS, "Download %s complete: %s\n", ws.ID(), finalPath)
	service.announcer.AnnounceDownloadComplete(ws.ID(), finalPath)

	return &Result{
		Path:      finalPath,
		Filename:  filepath.Base(finalPath),
		MimeType:  request.Kind.MimeType(),
		workspace: ws,
	}, nil
}

type noopAnnouncer struct{}

func (noopAnnouncer) AnnounceDownloadStarted(uuid.UUID, string)  {}
func (noopAnnouncer) AnnounceDownloadComplete(uuid.UUID, string) {}
func (noopAnnouncer) AnnounceDownloadFailed(uuid.UUID, error)    {}
