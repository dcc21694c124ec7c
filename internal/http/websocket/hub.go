package websocket

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hbomb79/Snatch/pkg/logger"
)

var socketLogger = logger.Get("WebSocket")

// SocketHub manages websocket upgrading, client registration, and the
// broadcasting of activity messages to connected clients. Snatch only
// pushes state outwards; anything a client sends is logged and dropped.
type SocketHub struct {
	upgrader     *websocket.Upgrader
	clients      []*socketClient
	registerCh   chan *socketClient
	deregisterCh chan *socketClient
	sendCh       chan *SocketMessage
	running      bool
}

func New() *SocketHub {
	return &SocketHub{
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		running: false,
	}
}

// Start runs the hub event loop, servicing client registration and
// outbound messages until the provided context is cancelled.
func (hub *SocketHub) Start(ctx context.Context) {
	if hub.running {
		socketLogger.Emit(logger.WARNING, "Attempting to start socketHub when already running! Ignoring request.\n")
		return
	} else if ctx.Err() != nil {
		socketLogger.Emit(logger.STOP, "Refusing to start socket hub as provided context is already cancelled\n")
		return
	}
	socketLogger.Emit(logger.INFO, "Opening SocketHub!\n")

	hub.sendCh = make(chan *SocketMessage)
	hub.registerCh = make(chan *socketClient)
	hub.deregisterCh = make(chan *socketClient)
	hub.clients = make([]*socketClient, 0)
	hub.running = true

	defer hub.close()
loop:
	for {
		select {
		case message := <-hub.sendCh:
			if message.Target != nil {
				if _, client := hub.findClient(message.Target); client != nil {
					if err := client.SendMessage(message); err != nil {
						socketLogger.Emit(logger.ERROR, "Failed to send message to target {%v}: %v\n", message.Target, err.Error())
					}
				} else {
					socketLogger.Emit(logger.WARNING, "Attempted to send message to target {%v}, but no matching client was found.\n", message.Target)
				}

				break
			}

			hub.broadcastMessage(message)
		case client := <-hub.registerCh:
			if idx, _ := hub.findClient(client.id); idx > -1 {
				socketLogger.Emit(logger.ERROR, "Attempted to register client that is already registered (duplicate uuid)! Illegal!\n")
				client.Close()

				break
			}

			hub.clients = append(hub.clients, client)
			socketLogger.Emit(logger.NEW, "Registered new client {%v}\n", client.id)
		case client := <-hub.deregisterCh:
			if idx, _ := hub.findClient(client.id); idx != -1 {
				hub.clients = append(hub.clients[:idx], hub.clients[idx+1:]...)
				socketLogger.Emit(logger.REMOVE, "Deregistered client {%v}\n", client.id)

				break
			}

			socketLogger.Emit(logger.WARNING, "Attempted to deregister unknown client {%v}\n", client.id)
		case <-ctx.Done():
			socketLogger.Emit(logger.REMOVE, "Shutting down socket hub! Closing all clients.\n")
			break loop
		}
	}
}

// Send emits the provided message on the send channel - messages are
// ignored if the hub is not running (see Start()). A message with a
// Target is delivered only to the client with a matching ID; a message
// without one is broadcast to every connected client.
func (hub *SocketHub) Send(message *SocketMessage) {
	if !hub.running {
		socketLogger.Emit(logger.WARNING, "Attempted to send message via socket hub, however the hub is offline. Ignoring message.\n")
		return
	}

	hub.sendCh <- message
}

// UpgradeToSocket upgrades a given HTTP request to a websocket and
// registers the new client with the hub. Blocks until the client
// disconnects.
func (hub *SocketHub) UpgradeToSocket(w http.ResponseWriter, r *http.Request) {
	if !hub.running {
		socketLogger.Emit(logger.ERROR, "Failed to upgrade incoming HTTP request to a websocket: SocketHub has not been started!\n")
		return
	}

	// Generate the UUID first - if we did this later and it failed,
	// we'd have already upgraded the connection to a websocket.
	id, err := uuid.NewRandom()
	if err != nil {
		socketLogger.Emit(logger.ERROR, "Failed to generate UUID for new connection - aborting!\n")
		return
	}

	sock, err := hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		socketLogger.Emit(logger.ERROR, "Failed to upgrade incoming HTTP request to a websocket: %v\n", err.Error())
		return
	}

	client := &socketClient{
		id:     &id,
		socket: sock,
	}

	hub.registerCh <- client

	// Welcome the client so it knows its own id immediately.
	hub.Send(&SocketMessage{
		Title:  "CONNECTION_ESTABLISHED",
		Body:   map[string]interface{}{"client": id},
		Target: &id,
		Type:   Welcome,
	})

	// Ensure the client is deregistered once its read loop closes -
	// whether because it disconnected or because an error occurred.
	defer func() {
		hub.deregisterCh <- client
		client.Close()
	}()

	if err := client.Read(); err != nil {
		socketLogger.Emit(logger.WARNING, "Client {%v} closed, error: %v\n", client.id, err.Error())
	}
}

// close deregisters and closes all connected clients and sockets.
func (hub *SocketHub) close() {
	if !hub.running {
		socketLogger.Emit(logger.WARNING, "Attempted to close a socket hub that is not running!\n")
		return
	}

	for _, client := range hub.clients {
		client.Close()
	}

	hub.clients = nil
	hub.running = false
	socketLogger.Emit(logger.STOP, "Socket hub is now closed!\n")
}

// findClient returns the socketClient with the matching uuid if one
// can be found - if not, nil is returned. The index of the client
// inside of the client list is returned as well.
func (hub *SocketHub) findClient(id *uuid.UUID) (int, *socketClient) {
	for idx, client := range hub.clients {
		if client.id == id {
			return idx, client
		}
	}

	return -1, nil
}

// broadcastMessage sends the provided message to every connected
// client - used for pushing new state to all clients interested.
func (hub *SocketHub) broadcastMessage(message *SocketMessage) {
	for _, client := range hub.clients {
		if err := client.SendMessage(message); err != nil {
			socketLogger.Emit(logger.ERROR, "Failed to broadcast to client {%v}: %v\n", client.id, err.Error())
		}
	}
}
