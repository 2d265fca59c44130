package websocket

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler upgrades "/ws" requests into training sessions. JWT middleware
// runs before this and stores the user identity in the echo context.
func (s *Server) Handler(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	userID := c.Get("user_id").(string)

	client := NewClient(conn, userID, uuid.NewString(), s.handleFrame)
	s.hub.Register(client)

	client.Run()

	defer s.hub.Unregister(client)

	// Wait for the client context to be done (connection closed)
	<-client.Context().Done()

	return nil
}
