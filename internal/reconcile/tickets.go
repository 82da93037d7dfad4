package reconcile

import (
	"fmt"
)

// Ticket is one attendee record pulled from the event query response. Answer
// is nil when the attendee gave no answer, which is distinct from an empty
// answer.
type Ticket struct {
	Name     string
	Username string
	Status   string
	Answer   *string
}

// TicketsFromResponse walks data.event.tickets.edges in a query response
// document and extracts one Ticket per edge. Names are whitespace-cleaned at
// extraction time.
func TicketsFromResponse(doc map[string]any) ([]Ticket, error) {
	edges, err := ticketEdges(doc)
	if err != nil {
		return nil, err
	}

	tickets := make([]Ticket, 0, len(edges))
	for i, raw := range edges {
		edge, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ticket edge %d is not an object", i)
		}

		node, ok := edge["node"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ticket edge %d has no node", i)
		}

		user, ok := node["user"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ticket edge %d has no user", i)
		}

		t := Ticket{
			Name:     CleanWhitespace(stringField(user, "name")),
			Username: stringField(user, "username"),
			Status:   stringField(node, "status"),
		}

		if answer, ok := node["answer"].(map[string]any); ok {
			text := stringField(answer, "text")
			t.Answer = &text
		}

		tickets = append(tickets, t)
	}

	return tickets, nil
}

func ticketEdges(doc map[string]any) ([]any, error) {
	data, ok := doc["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response has no data object")
	}

	event, ok := data["event"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response has no data.event object")
	}

	ticketsObj, ok := event["tickets"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response has no data.event.tickets object")
	}

	edges, ok := ticketsObj["edges"].([]any)
	if !ok {
		return nil, fmt.Errorf("response has no data.event.tickets.edges list")
	}

	return edges, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
