package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// IdentityData represents an enrolled identity
type IdentityData struct {
	ID             string                 `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ExternalID     string                 `json:"external_id" example:"emp-1042"`
	Name           string                 `json:"name" example:"Alice Souza"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	PortraitKey    string                 `json:"portrait_key,omitempty" example:"portraits/550e8400-e29b-41d4-a716-446655440000.jpg"`
	EmbeddingCount int                    `json:"embedding_count" example:"2"`
	CreatedAt      string                 `json:"created_at" example:"2025-01-01T00:00:00Z"`
	UpdatedAt      string                 `json:"updated_at" example:"2025-01-01T00:00:00Z"`
}

// IdentityListData represents a page of enrolled identities
type IdentityListData struct {
	Identities []IdentityData `json:"identities"`
	Total      int            `json:"total" example:"128"`
	Limit      int            `json:"limit" example:"50"`
	Offset     int            `json:"offset" example:"0"`
}

// UpdateIdentityData represents the update request body
type UpdateIdentityData struct {
	ExternalID string                 `json:"external_id,omitempty" example:"emp-1042"`
	Name       string                 `json:"name,omitempty" example:"Alice Souza"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// MatchedIdentityData identifies the matched person in a verification
type MatchedIdentityData struct {
	ID   string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name string `json:"name,omitempty" example:"Alice Souza"`
}

// VerificationData represents a recorded verification attempt
type VerificationData struct {
	EventID   string               `json:"event_id" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Decision  string               `json:"decision" example:"match"`
	Score     *float64             `json:"score" example:"0.31"`
	Identity  *MatchedIdentityData `json:"identity,omitempty"`
	Source    string               `json:"source" example:"live"`
	CreatedAt string               `json:"created_at" example:"2025-01-01T00:00:00Z"`
}

// EventData represents one verification log entry
type EventData struct {
	ID           string   `json:"id" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	IdentityID   string   `json:"identity_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	IdentityName string   `json:"identity_name,omitempty" example:"Alice Souza"`
	QueryHash    string   `json:"query_hash" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
	Score        *float64 `json:"score" example:"0.31"`
	Decision     string   `json:"decision" example:"match"`
	Source       string   `json:"source" example:"live"`
	SnapshotKey  string   `json:"snapshot_key,omitempty" example:"snapshots/7c9e6679-7425-40de-944b-e07fc1f90ae7.jpg"`
	CreatedAt    string   `json:"created_at" example:"2025-01-01T00:00:00Z"`
}

// EventListData represents a page of verification log entries
type EventListData struct {
	Events []EventData `json:"events"`
	Total  int         `json:"total" example:"412"`
	Limit  int         `json:"limit" example:"50"`
	Offset int         `json:"offset" example:"0"`
}

// StatsSummaryData represents verification counts over a window
type StatsSummaryData struct {
	WindowHours      int     `json:"window_hours" example:"24"`
	Total            int64   `json:"total" example:"412"`
	Matches          int64   `json:"matches" example:"388"`
	NoMatches        int64   `json:"no_matches" example:"24"`
	MatchRate        float64 `json:"match_rate" example:"0.94"`
	UniqueIdentities int64   `json:"unique_identities" example:"57"`
	GeneratedAt      string  `json:"generated_at" example:"2025-01-01T12:00:00Z"`
}

// TopIdentityData represents one most-matched identity
type TopIdentityData struct {
	IdentityID string `json:"identity_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name       string `json:"name" example:"Alice Souza"`
	Matches    int64  `json:"matches" example:"31"`
	LastSeen   string `json:"last_seen" example:"2025-01-01T11:58:00Z"`
}

// TopIdentitiesData represents the top identities listing
type TopIdentitiesData struct {
	Identities []TopIdentityData `json:"identities"`
}

// TimelineBucketData represents one hour of verification activity
type TimelineBucketData struct {
	Hour      string `json:"hour" example:"2025-01-01T11:00:00Z"`
	Matches   int64  `json:"matches" example:"17"`
	NoMatches int64  `json:"no_matches" example:"2"`
}

// TimelineData represents the hourly activity timeline
type TimelineData struct {
	Buckets []TimelineBucketData `json:"buckets"`
}

// CreateWebhookData represents the webhook creation request body
type CreateWebhookData struct {
	URL    string `json:"url" example:"https://example.com/hooks/facegate"`
	Secret string `json:"secret,omitempty" example:"whsec_..."`
}

// WebhookData represents a webhook subscription
type WebhookData struct {
	ID        string `json:"id" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	URL       string `json:"url" example:"https://example.com/hooks/facegate"`
	Active    bool   `json:"active" example:"true"`
	CreatedAt string `json:"created_at" example:"2025-01-01T00:00:00Z"`
}

// CreatedWebhookData is WebhookData plus the signing secret, returned once
type CreatedWebhookData struct {
	ID        string `json:"id" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	URL       string `json:"url" example:"https://example.com/hooks/facegate"`
	Active    bool   `json:"active" example:"true"`
	CreatedAt string `json:"created_at" example:"2025-01-01T00:00:00Z"`
	Secret    string `json:"secret" example:"c0ffee..."`
}

// WebhookListData represents the webhook subscription listing
type WebhookListData struct {
	Webhooks []WebhookData `json:"webhooks"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Facegate API",
		Version:     "v1.0.0",
		Description: "Facial identity verification service: enroll identities, verify faces against the gallery, and query the verification log",
		Host:        "localhost:8080",
		Path:        "/api/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// Identities endpoints

		// POST /api/v1/identities - Enroll Identity
		endpoint.New(
			endpoint.POST,
			"/identities",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Enroll a new identity"),
			endpoint.WithDescription("Enrolls a new identity from an image containing exactly one face. The face must not already be enrolled under another identity."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityData{}, "201", "Identity enrolled successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_INPUT", Message: "Empty or undecodable image"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "IDENTITY_ALREADY_EXISTS", Message: "An identity with this external_id already exists"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "DUPLICATE_IDENTITY", Message: "This face is already enrolled under another identity"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MODEL_UNAVAILABLE", Message: "Face model is unavailable"}, "503", "Service Unavailable"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /api/v1/identities - List Identities
		endpoint.New(
			endpoint.GET,
			"/identities",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("List enrolled identities"),
			endpoint.WithDescription("Lists enrolled identities newest-first. Search matches name and external_id."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("search", parameter.Query, parameter.WithDescription("Substring match on name or external_id")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Page size (default: 50, max: 200)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Page offset (default: 0)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityListData{}, "200", "Identities retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /api/v1/identities/:id - Get Identity
		endpoint.New(
			endpoint.GET,
			"/identities/{id}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Get an enrolled identity"),
			endpoint.WithDescription("Retrieves one identity with its reference embedding count"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityData{}, "200", "Identity retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// PUT /api/v1/identities/:id - Update Identity
		endpoint.New(
			endpoint.PUT,
			"/identities/{id}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Update identity fields"),
			endpoint.WithDescription("Updates external_id, name or metadata. No image is involved; reference embeddings are untouched."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithBody(UpdateIdentityData{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityData{}, "200", "Identity updated successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Nothing to update"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "IDENTITY_ALREADY_EXISTS", Message: "An identity with this external_id already exists"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /api/v1/identities/:id/embeddings - Add Reference Image
		endpoint.New(
			endpoint.POST,
			"/identities/{id}/embeddings",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Add a reference image"),
			endpoint.WithDescription("Extracts one face from the image and appends it to the identity's reference set. Matching the identity itself is expected; matching any other enrolled identity is rejected."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityData{}, "200", "Reference image added successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_INPUT", Message: "Empty or undecodable image"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "DUPLICATE_IDENTITY", Message: "This face is already enrolled under another identity"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MODEL_UNAVAILABLE", Message: "Face model is unavailable"}, "503", "Service Unavailable"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// DELETE /api/v1/identities/:id - Delete Identity
		endpoint.New(
			endpoint.DELETE,
			"/identities/{id}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Delete an identity"),
			endpoint.WithDescription("Deletes the identity, its reference embeddings and its portrait. Recorded verification events are kept."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Identity UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Identity deleted successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// Verification endpoint

		// POST /api/v1/verifications - Verify Face
		endpoint.New(
			endpoint.POST,
			"/verifications",
			endpoint.WithTags("Verifications"),
			endpoint.WithSummary("Verify a face against the gallery"),
			endpoint.WithDescription("Runs one frame through extraction and matching. Accepts an image file plus an optional source field (live or upload). Every accepted frame is recorded in the verification log, including frames with no detectable face and frames processed during a model outage."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VerificationData{}, "200", "Verification recorded"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_INPUT", Message: "Empty or undecodable image"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "PERSISTENCE_FAILED", Message: "Failed to persist data"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// Events endpoints

		// GET /api/v1/events - Query Verification Log
		endpoint.New(
			endpoint.GET,
			"/events",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("Query the verification log"),
			endpoint.WithDescription("Returns verification events newest-first. All filters are optional and combine with AND."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("since", parameter.Query, parameter.WithDescription("Lower bound, RFC3339")),
				parameter.StrParam("until", parameter.Query, parameter.WithDescription("Upper bound, RFC3339")),
				parameter.StrParam("identity_id", parameter.Query, parameter.WithDescription("Matched identity UUID")),
				parameter.StrParam("decision", parameter.Query, parameter.WithDescription("match or no_match")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Page size (default: 50, max: 200)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Page offset (default: 0)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EventListData{}, "200", "Events retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid filter value"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// Stats endpoints

		// GET /api/v1/stats/summary - Verification Summary
		endpoint.New(
			endpoint.GET,
			"/stats/summary",
			endpoint.WithTags("Stats"),
			endpoint.WithSummary("Get verification counts over a window"),
			endpoint.WithDescription("Returns total, match and no-match counts with the match rate. Results are cached briefly."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("hours", parameter.Query, parameter.WithDescription("Window size in hours (default: 24, max: 168)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatsSummaryData{}, "200", "Summary retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "PERSISTENCE_FAILED", Message: "Failed to persist data"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /api/v1/stats/top-identities - Most Matched Identities
		endpoint.New(
			endpoint.GET,
			"/stats/top-identities",
			endpoint.WithTags("Stats"),
			endpoint.WithSummary("Get the most matched identities"),
			endpoint.WithDescription("Ranks identities by match count within the window. Names are denormalized from the log, so deleted identities still appear."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("hours", parameter.Query, parameter.WithDescription("Window size in hours (default: 24, max: 168)")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Number of identities (default: 10, max: 50)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(TopIdentitiesData{}, "200", "Ranking retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "PERSISTENCE_FAILED", Message: "Failed to persist data"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /api/v1/stats/timeline - Hourly Activity Timeline
		endpoint.New(
			endpoint.GET,
			"/stats/timeline",
			endpoint.WithTags("Stats"),
			endpoint.WithSummary("Get hourly verification counts"),
			endpoint.WithDescription("Returns one bucket per hour across the window, hours without activity included as zeros"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("hours", parameter.Query, parameter.WithDescription("Window size in hours (default: 24, max: 168)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(TimelineData{}, "200", "Timeline retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "PERSISTENCE_FAILED", Message: "Failed to persist data"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// Webhooks endpoints

		// POST /api/v1/webhooks - Create Subscription
		endpoint.New(
			endpoint.POST,
			"/webhooks",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("Register a webhook endpoint"),
			endpoint.WithDescription("Registers an HTTP endpoint for event delivery. The signing secret is returned only in this response; deliveries carry an HMAC-SHA256 signature in X-Facegate-Signature."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(CreateWebhookData{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CreatedWebhookData{}, "201", "Subscription created successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "url must be a valid http(s) URL"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /api/v1/webhooks - List Subscriptions
		endpoint.New(
			endpoint.GET,
			"/webhooks",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("List webhook endpoints"),
			endpoint.WithDescription("Lists registered endpoints without their signing secrets"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WebhookListData{}, "200", "Subscriptions retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// DELETE /api/v1/webhooks/:id - Delete Subscription
		endpoint.New(
			endpoint.DELETE,
			"/webhooks/{id}",
			endpoint.WithTags("Webhooks"),
			endpoint.WithSummary("Remove a webhook endpoint"),
			endpoint.WithDescription("Removes the subscription and its queued deliveries"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Subscription UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Subscription removed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "WEBHOOK_NOT_FOUND", Message: "Webhook subscription not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
