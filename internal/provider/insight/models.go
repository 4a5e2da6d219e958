package insight

// DetectRequest for POST /detect
type DetectRequest struct {
	Image string `json:"image"` // base64 encoded image
	Model string `json:"model"` // "buffalo_l", "buffalo_s", etc
}

// DetectResponse from POST /detect
type DetectResponse struct {
	Faces     []DetectedFace `json:"faces"`
	Model     string         `json:"model"`
	Dimension int            `json:"dimension"`
}

type DetectedFace struct {
	Box        FaceBox   `json:"box"`
	Embedding  []float32 `json:"embedding"`
	Confidence float64   `json:"confidence"`
}

type FaceBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
