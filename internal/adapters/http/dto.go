package http

// ReadingRequest is the JSON body accepted by POST /v1/readings. Cards are
// free text; set Draw to have the server draw Count cards instead.
type ReadingRequest struct {
	Question string   `json:"question"`
	Cards    []string `json:"cards,omitempty"`
	Count    int      `json:"count,omitempty"`
	Draw     bool     `json:"draw,omitempty"`
}

// ReadingResponse is the JSON shape returned by POST /v1/readings.
type ReadingResponse struct {
	Reading string   `json:"reading"`
	Cards   []string `json:"cards"`
	Meta    MetaResp `json:"meta"`
}

type MetaResp struct {
	Model     string `json:"model"`
	RequestID string `json:"request_id"`
	LatencyMS int64  `json:"latency_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
