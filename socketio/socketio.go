package socketio

import (
	"context"
	"time"

	"sportlink-service/config"
	"sportlink-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/socket.io-go-redis/adapter"
	r_type "github.com/zishang520/socket.io-go-redis/types"
	"github.com/zishang520/socket.io/v2/socket"
)

// Server wraps the socket.io server. Each authenticated client joins a room
// named after its user id, so services can address a user directly.
type Server struct {
	io *socket.Server
}

func Init(app *fiber.App, rdb *redis.Client) *Server {
	log.DEBUG = config.Config("SOCKET_DEBUG") == "true"

	options := socket.DefaultServerOptions()
	options.SetServeClient(true)
	options.SetAllowEIO3(true)
	options.SetPingInterval(300 * time.Millisecond)
	options.SetPingTimeout(200 * time.Millisecond)
	options.SetMaxHttpBufferSize(100000000)
	options.SetConnectTimeout(1000 * time.Millisecond)
	options.SetAdapter(&adapter.RedisAdapterBuilder{
		Redis: r_type.NewRedisClient(context.Background(), rdb),
		Opts:  &adapter.RedisAdapterOptions{},
	})

	io := socket.NewServer(nil, nil)

	io.Use(func(client *socket.Socket, next func(*socket.ExtendedError)) {
		token, auth := client.Conn().Request().Query().Get("token")

		if auth {
			claims, err := utils.CheckAndExtractTokenMetadata(token, "JWT_ACCESS_KEY")

			if err == nil {
				if !claims.Otp {
					client.Join(socket.Room(claims.Id))
					client.SetData(claims)
				}
			}
		}

		next(nil)
	})

	app.Get("/socket.io/", adaptor.HTTPHandler(io.ServeHandler(options)))
	app.Post("/socket.io/", adaptor.HTTPHandler(io.ServeHandler(options)))

	return &Server{io: io}
}

func (s *Server) IO() *socket.Server {
	return s.io
}

func (s *Server) Broadcast(event string, message any) {
	s.io.FetchSockets()(func(sockets []*socket.RemoteSocket, _ error) {
		for _, client := range sockets {
			client.Emit(event, message)
		}
	})
}

// Emit delivers an event to one user's room.
func (s *Server) Emit(id string, event string, message any) {
	s.io.To(socket.Room(id)).Emit(event, message)
}

// Online reports whether a room (user id) currently has a connection.
func (s *Server) Online(id string) bool {
	for _, room := range s.io.Sockets().Adapter().Rooms().Keys() {
		if room == socket.Room(id) {
			return true
		}
	}
	return false
}

func (s *Server) Close() {
	s.io.Close(nil)
}
