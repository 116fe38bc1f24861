package event

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"sportlink-service/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

type ChannelData struct {
	Action string
	Data   []byte
	Out    ChannelOutData
}

type ChannelOutData struct {
	Send bool
	Log  bool
}

type SubscribeListener struct {
	Queue   string
	Channel chan ChannelData
}

type LogData struct {
	Time    int64  `json:"time"`
	Service string `json:"service"`
	Action  string `json:"action"`
	Data    string `json:"data"`
}

const ActionHeader string = "x-action"
const InLogPath string = "log/in.log"
const OutLogPath string = "log/out.log"

// Bus wraps one RabbitMQ connection, its declared queues and the in/out
// journal files. Constructed once in main and injected where events are
// published.
type Bus struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queues    map[string]amqp.Queue
	listeners map[string]chan ChannelData

	inLog  *os.File
	outLog *os.File
}

func Connect(queues []string) (*Bus, error) {
	conn, err := amqp.Dial(fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		config.Config("RABBITMQ_USER"),
		config.Config("RABBITMQ_PASSWORD"),
		config.Config("RABBITMQ_HOST"),
		config.Config("RABBITMQ_PORT"),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	log.Printf("connection opened to RabbitMQ server")

	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a RabbitMQ channel: %w", err)
	}
	log.Printf("opened a RabbitMQ channel")

	bus := &Bus{
		conn:      conn,
		channel:   channel,
		queues:    make(map[string]amqp.Queue),
		listeners: make(map[string]chan ChannelData),
	}

	for _, name := range queues {
		queue, err := channel.QueueDeclare(
			name,  // name
			false, // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return nil, fmt.Errorf("failed to declare a RabbitMQ queue: %w", err)
		}

		bus.queues[name] = queue
		log.Printf("success declare a RabbitMQ queue: %s", name)
	}

	if err := os.MkdirAll(filepath.Dir(InLogPath), 0700); err != nil {
		return nil, err
	}
	bus.inLog, err = os.OpenFile(InLogPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}
	bus.outLog, err = os.OpenFile(OutLogPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}

	return bus, nil
}

func (b *Bus) Subscribe(queues []SubscribeListener) error {
	for _, queue := range queues {
		b.listeners[queue.Queue] = queue.Channel

		msgs, err := b.channel.Consume(
			queue.Queue, // queue
			"",          // consumer
			false,       // auto-ack
			false,       // exclusive
			false,       // no-local
			false,       // no-wait
			nil,         // args
		)
		if err != nil {
			return fmt.Errorf("failed to register a consumer: %w", err)
		}
		log.Printf("success subscribe to RabbitMQ [%s] queue", queue.Queue)

		go func(listener chan ChannelData) {
			for msg := range msgs {
				action, _ := msg.Headers[ActionHeader].(string)

				if config.Config("EVENT_MODE") != "DISABLE" {
					b.logIn(LogData{
						Time:    time.Now().UnixMicro(),
						Service: queue.Queue,
						Action:  action,
						Data:    string(msg.Body[:]),
					})
				}

				msg.Ack(false)

				listener <- ChannelData{
					Action: action,
					Data:   msg.Body,
					Out: ChannelOutData{
						Send: true,
						Log:  true,
					},
				}
			}
		}(queue.Channel)
	}

	return nil
}

func (b *Bus) Emit(service string, action string, data []byte, journal bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := b.channel.PublishWithContext(
		ctx,
		"",      // exchange
		service, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Headers: amqp.Table{
				ActionHeader: action,
			},
			Body: data,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	if journal && config.Config("EVENT_MODE") != "DISABLE" {
		b.logOut(LogData{
			Time:    time.Now().UnixMicro(),
			Service: service,
			Action:  action,
			Data:    string(data[:]),
		})
	}

	return nil
}

func (b *Bus) logIn(data LogData) {
	eventJson, _ := json.Marshal(data)
	if _, err := b.inLog.WriteString(string(eventJson) + "\n"); err != nil {
		log.Printf("failed to journal inbound event: %v", err)
	}
}

func (b *Bus) logOut(data LogData) {
	eventJson, _ := json.Marshal(data)
	if _, err := b.outLog.WriteString(string(eventJson) + "\n"); err != nil {
		log.Printf("failed to journal outbound event: %v", err)
	}
}

// Replay re-drives journaled events according to EVENT_MODE.
func (b *Bus) Replay() {
	switch config.Config("EVENT_MODE") {
	case "IN_SEND_LOG":
		b.replayIn(ChannelOutData{Send: true, Log: true})
	case "IN_SEND":
		b.replayIn(ChannelOutData{Send: true, Log: false})
	case "IN":
		b.replayIn(ChannelOutData{Send: false, Log: false})
	case "OUT":
		b.replayOut()
	}
}

func (b *Bus) replayIn(out ChannelOutData) {
	inLog, err := os.Open(InLogPath)
	if err != nil {
		log.Fatalf("failed opening file: %s", err)
	}
	defer inLog.Close()

	scanner := bufio.NewScanner(inLog)
	for scanner.Scan() {
		data := LogData{}
		json.Unmarshal([]byte(scanner.Text()), &data)
		b.listeners[data.Service] <- ChannelData{
			Action: data.Action,
			Data:   []byte(data.Data),
			Out:    out,
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}

func (b *Bus) replayOut() {
	outLog, err := os.Open(OutLogPath)
	if err != nil {
		log.Fatalf("failed opening file: %s", err)
	}
	defer outLog.Close()

	scanner := bufio.NewScanner(outLog)
	for scanner.Scan() {
		data := LogData{}
		json.Unmarshal([]byte(scanner.Text()), &data)
		if err := b.Emit(data.Service, data.Action, []byte(data.Data), false); err != nil {
			log.Printf("failed to replay event: %v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}

func (b *Bus) Close() {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		b.conn.Close()
	}
	if b.inLog != nil {
		b.inLog.Close()
	}
	if b.outLog != nil {
		b.outLog.Close()
	}
}
