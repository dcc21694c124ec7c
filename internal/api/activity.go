package api

import (
	"github.com/google/uuid"
	"github.com/hbomb79/Snatch/internal/http/websocket"
)

const (
	TITLE_DOWNLOAD_STARTED  = "DOWNLOAD_STARTED"
	TITLE_DOWNLOAD_COMPLETE = "DOWNLOAD_COMPLETE"
	TITLE_DOWNLOAD_FAILED   = "DOWNLOAD_FAILED"
)

// Broadcaster pushes download lifecycle updates to every client
// connected to the activity websocket. It implements the download
// services Announcer interface.
type Broadcaster struct {
	socketHub *websocket.SocketHub
}

func NewBroadcaster(socketHub *websocket.SocketHub) *Broadcaster {
	return &Broadcaster{socketHub: socketHub}
}

func (hub *Broadcaster) AnnounceDownloadStarted(id uuid.UUID, url string) {
	hub.broadcast(TITLE_DOWNLOAD_STARTED, map[string]interface{}{"download_id": id, "url": url})
}

func (hub *Broadcaster) AnnounceDownloadComplete(id uuid.UUID, path string) {
	hub.broadcast(TITLE_DOWNLOAD_COMPLETE, map[string]interface{}{"download_id": id, "path": path})
}

func (hub *Broadcaster) AnnounceDownloadFailed(id uuid.UUID, failure error) {
	hub.broadcast(TITLE_DOWNLOAD_FAILED, map[string]interface{}{"download_id": id, "detail": failure.Error()})
}

func (hub *Broadcaster) broadcast(title string, body map[string]interface{}) {
	hub.socketHub.Send(&websocket.SocketMessage{
		Title: title,
		Body:  body,
		Type:  websocket.Update,
	})
}
