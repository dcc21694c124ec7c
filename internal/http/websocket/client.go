package websocket

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hbomb79/Snatch/pkg/logger"
)

type socketClient struct {
	id     *uuid.UUID
	socket *websocket.Conn
}

func (client *socketClient) SendMessage(message *SocketMessage) error {
	return client.socket.WriteJSON(message)
}

// Read runs a read-loop on the clients websocket connection. Snatch's
// activity socket is push-only, so inbound payloads are discarded; the
// loop exists to detect disconnection, at which point the connection
// error is returned. It is the responsibility of the caller to
// de-register the client once the loop closes.
func (client *socketClient) Read() error {
	for {
		if _, _, err := client.socket.ReadMessage(); err != nil {
			return err
		}

		socketLogger.Emit(logger.VERBOSE, "Discarding inbound message from client {%v}\n", client.id)
	}
}

// Close will close this clients socket
func (client *socketClient) Close() {
	client.socket.Close()
}
