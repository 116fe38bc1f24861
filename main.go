package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sportlink-service/config"
	"sportlink-service/controller"
	"sportlink-service/database"
	"sportlink-service/event"
	"sportlink-service/event/listener"
	"sportlink-service/router"
	"sportlink-service/service"
	"sportlink-service/socketio"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	log.SetPrefix("sportlink-service: ")

	rest := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StrictRouting:         true,
		AppName:               "sportlink-service",
	})

	rest.Use(cors.New())

	redis := database.RedisConnect()
	db := database.PostgresConnect()
	enforcer := database.Casbin(db)

	bus, err := event.Connect([]string{
		// Connect to queues
		"api",
		"backoffice",
	})
	if err != nil {
		log.Fatal(err)
	}

	// Run "api" listener
	go listener.Api()

	// Subscribe listener channel to "api" events
	if err := bus.Subscribe([]event.SubscribeListener{
		{
			Queue:   "api",
			Channel: listener.ApiChannel,
		},
	}); err != nil {
		log.Fatal(err)
	}

	// Replay journaled events if EVENT_MODE asks for it
	bus.Replay()

	socket := socketio.Init(rest, redis[1])

	users := service.NewUserService(db)
	relationships := service.NewRelationshipService(db, users)
	friends := service.NewFriendService(db, users)
	conversations := service.NewConversationService(db, users)
	notifications := service.NewNotificationService(db)
	messages := service.NewMessageService(db, users, relationships, conversations, notifications, bus, socket)

	router.Rest(rest, router.Controllers{
		Auth:         controller.NewAuthController(db, redis[0], enforcer, bus),
		User:         controller.NewUserController(users, relationships),
		Friend:       controller.NewFriendController(friends),
		Messenger:    controller.NewMessengerController(messages, conversations),
		Notification: controller.NewNotificationController(notifications),
		Admin:        controller.NewAdminController(users, messages),
	}, enforcer)

	router.Socket(socket, router.SocketServices{
		Conversations: conversations,
		Messages:      messages,
		Notifications: notifications,
	})

	go rest.Listen(fmt.Sprintf(":%s", config.Config("SERVER_PORT")))

	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	socket.Close()
	bus.Close()
	os.Exit(0)
}
