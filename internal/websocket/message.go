package websocket

// Message defines the structure for websocket messages sent to
// clients on the change feed.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}
