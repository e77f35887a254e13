package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/palm-client/common"
	"github.com/Laisky/palm-client/middleware"
	rcontroller "github.com/Laisky/palm-client/relay/controller"
	"github.com/Laisky/palm-client/relay/controller/validator"
	"github.com/Laisky/palm-client/relay/model"
	"github.com/Laisky/palm-client/relay/operation"
)

// maxRequestBodySize bounds inbound bodies. Prompts are capped at
// model.MaxTextLength runes, so 1 MiB leaves ample room.
const maxRequestBodySize = 1 << 20

// callOptions are the per-request knobs shared by every operation body.
type callOptions struct {
	Config         *model.GenerationConfig `json:"config,omitempty"`
	SafetySettings map[string]string       `json:"safety_settings,omitempty"`
}

// UnmarshalJSON fills config fields the caller left out with the defaults.
func (o *callOptions) UnmarshalJSON(data []byte) error {
	type plain callOptions
	cfg := model.DefaultGenerationConfig()
	decoded := plain{Config: &cfg}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*o = callOptions(decoded)
	return nil
}

// Handler serves the text operations over HTTP using one shared client.
type Handler struct {
	client *rcontroller.Client
}

// NewHandler returns a Handler backed by client.
func NewHandler(client *rcontroller.Client) *Handler {
	return &Handler{client: client}
}

// Operation returns the handler for POST /v1/<kind>.
//
// Validation failures answer 400 with the taxonomy code as error type. Any
// classified upstream response answers 200 with the outcome, including API
// errors and safety blocks. Transport failures answer 502.
func (h *Handler) Operation(kind operation.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		lg := gmw.GetLogger(c).With(zap.String("operation", string(kind)))

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBodySize+1))
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.Wrap(err, "read request body"))
			return
		}
		if len(body) > maxRequestBodySize {
			middleware.AbortWithError(c, http.StatusRequestEntityTooLarge,
				errors.Wrapf(model.ErrInvalidInput, "request body exceeds %d bytes", maxRequestBodySize))
			return
		}

		op, err := operation.New(kind)
		if err != nil {
			middleware.AbortWithError(c, http.StatusNotFound, err)
			return
		}
		var opts callOptions
		if err := json.Unmarshal(body, op); err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.Wrap(model.ErrInvalidInput, "decode request body: "+err.Error()))
			return
		}
		if err := json.Unmarshal(body, &opts); err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.Wrap(model.ErrInvalidInput, "decode request options: "+err.Error()))
			return
		}
		validator.ValidateUnknownParametersWithContext(c, body, op, opts)

		preview, _ := common.SanitizePayloadForLogging(body, common.DefaultLogBodyLimit)
		lg.Debug("incoming operation request", zap.ByteString("body", preview))

		outcome, err := h.client.Do(gmw.Ctx(c), op, rcontroller.Options{
			Config:          opts.Config,
			SafetyOverrides: opts.SafetySettings,
		})
		switch {
		case err == nil:
			c.JSON(http.StatusOK, outcome)
		case model.IsValidationError(err):
			middleware.AbortWithError(c, http.StatusBadRequest, err)
		default:
			middleware.AbortWithError(c, http.StatusBadGateway, err)
		}
	}
}

// Ping answers 200 when the upstream accepts the configured key and model.
func (h *Handler) Ping(c *gin.Context) {
	if err := h.client.Ping(gmw.Ctx(c)); err != nil {
		middleware.AbortWithError(c, http.StatusBadGateway, err)
		return
	}
	conn := h.client.Connection()
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"model_version": conn.ModelVersion(),
		"model_type":    conn.ModelType(),
	})
}

// Healthz reports process liveness without touching the upstream.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": common.Version,
	})
}
