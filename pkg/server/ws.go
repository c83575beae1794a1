package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

type wsError struct {
	Error string `json:"error"`
}

type wsAck struct {
	Type string `json:"type"`
}

// handleWS accepts websocket clients. Every text message must be JSON;
// valid messages are acknowledged and invalid ones answered with an error.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	s.logger.Debug("websocket connected", "remote", r.RemoteAddr)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read", "err", err)
			}
			s.logger.Debug("websocket disconnected", "remote", r.RemoteAddr)
			return
		}

		var reply any = wsAck{Type: "ack"}
		var msg json.RawMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			reply = wsError{Error: "Invalid message format"}
		}
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Debug("websocket write", "err", err)
			return
		}
	}
}
