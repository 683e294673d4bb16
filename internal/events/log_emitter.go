package events

import (
	"encoding/json"
	"log"
)

func logEvent(name string, event GenerationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: failed to marshal generation event: %v", err)
		return
	}

	switch event.Type {
	case EventError:
		log.Printf("[%s] ERROR %s", name, data)
	default:
		log.Printf("[%s] %s", name, data)
	}
}
