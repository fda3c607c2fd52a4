package admin

import (
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nm-morais/go-golem/pkg/dataStructures/frameBuffer"
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/messageIO"
	"github.com/nm-morais/go-golem/pkg/serialization"
)

// DecodeRequest carries hex input: Frames are bare envelopes, Stream is a
// run of length-prefixed frames as read off a connection.
type DecodeRequest struct {
	Frames []string `json:"frames"`
	Stream string   `json:"stream"`
}

type DecodeResponse struct {
	Messages []DecodedMessage `json:"messages"`
	Error    string           `json:"error,omitempty"`
	Pending  int              `json:"pendingBytes,omitempty"`
}

type DecodedMessage struct {
	Type      uint16         `json:"type"`
	Name      string         `json:"name"`
	Signature string         `json:"signature"`
	Timestamp float64        `json:"timestamp"`
	Encrypted bool           `json:"encrypted"`
	ShortHash string         `json:"shortHash"`
	Fields    map[string]any `json:"fields"`
}

// Describe renders m for display.
func Describe(m message.Message) (DecodedMessage, error) {
	schema, err := message.SchemaOf(m)
	if err != nil {
		return DecodedMessage{}, err
	}
	fields, err := message.Fields(m)
	if err != nil {
		return DecodedMessage{}, err
	}
	hash, err := message.ShortHash(m)
	if err != nil {
		return DecodedMessage{}, err
	}
	out := DecodedMessage{
		Type:      uint16(m.Type()),
		Name:      schema.Name(),
		Signature: hex.EncodeToString(m.Signature()),
		Timestamp: m.Timestamp(),
		Encrypted: m.Encrypted(),
		ShortHash: hex.EncodeToString(hash),
		Fields:    make(map[string]any, len(fields)),
	}
	for _, e := range fields {
		out.Fields[fmt.Sprint(e.Key)] = jsonValue(e.Value)
	}
	return out, nil
}

// jsonValue maps canonical values onto encoding/json friendly ones. Byte
// strings become hex and map keys are stringified.
func jsonValue(v serialization.Value) any {
	switch x := v.(type) {
	case []byte:
		return hex.EncodeToString(x)
	case []serialization.Value:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonValue(e)
		}
		return out
	case serialization.Map:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[fmt.Sprint(e.Key)] = jsonValue(e.Value)
		}
		return out
	}
	return v
}

// handleDecode handles POST /api/v1/decode
func (s *Server) handleDecode(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}
	if len(req.Frames) == 0 && req.Stream == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: "frames or stream is required"})
		return
	}

	buf := frameBuffer.New(0)
	for i, f := range req.Frames {
		payload, err := hex.DecodeString(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid hex", Message: fmt.Sprintf("frame %d: %s", i, err)})
			return
		}
		if err := buf.AppendFrame(payload); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Frame too large", Message: err.Error()})
			return
		}
	}
	if req.Stream != "" {
		raw, err := hex.DecodeString(req.Stream)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid hex", Message: err.Error()})
			return
		}
		buf.AppendRaw(raw)
	}

	msgs, decodeErr := messageIO.NewDecoder(s.registry, nil, s.logger).ExtractPlainMessages(buf)
	resp := DecodeResponse{Messages: make([]DecodedMessage, 0, len(msgs)), Pending: buf.Len()}
	for _, m := range msgs {
		d, err := Describe(m)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Describe failed", Message: err.Error()})
			return
		}
		resp.Messages = append(resp.Messages, d)
	}
	status := http.StatusOK
	if decodeErr != nil {
		resp.Error = decodeErr.Error()
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}
