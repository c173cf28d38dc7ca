package xfer

const (
	// AppPort is the default port that the app will use for its HTTP server.
	// The app publishes the view API and websocket on this port.
	AppPort = 4040
)

// Details are some generic details that can be fetched from /api
type Details struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Hostname string `json:"hostname"`
}
