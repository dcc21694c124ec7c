package websocket

import "github.com/google/uuid"

type socketMessageType int

const (
	Update socketMessageType = iota
	Welcome
)

// SocketMessage is a single packet pushed to connected clients. Title
// identifies the update (e.g. DOWNLOAD_COMPLETE) and Body carries its
// payload. Target, when set, restricts delivery to the client with the
// matching UUID.
type SocketMessage struct {
	Title  string                 `json:"title"`
	Body   map[string]interface{} `json:"arguments"`
	Type   socketMessageType      `json:"type"`
	Target *uuid.UUID             `json:"-"`
}
