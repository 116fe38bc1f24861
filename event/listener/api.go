package listener

import (
	"log"

	"sportlink-service/event"
)

var (
	ApiChannel = make(chan event.ChannelData)
)

// Api drains events addressed to the api queue (push relays, backoffice
// consumers replay through here in EVENT_MODE=IN).
func Api() {
	for e := range ApiChannel {
		log.Printf("api event: %s %s", e.Action, string(e.Data))
	}
}
