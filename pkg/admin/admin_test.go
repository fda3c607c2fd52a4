package admin

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/nm-morais/go-golem/pkg/dataStructures/frameBuffer"
	"github.com/nm-morais/go-golem/pkg/message"
	"github.com/nm-morais/go-golem/pkg/messageIO"
	"github.com/nm-morais/go-golem/pkg/messages"
	"github.com/nm-morais/go-golem/pkg/metrics"
	"github.com/nm-morais/go-golem/pkg/serialization"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New("admin_test", reg)
	m.RecordFrameRead(10)
	return NewServer(":0", messages.NewRegistry(), reg)
}

func postDecode(t *testing.T, s *Server, req DecodeRequest) (*httptest.ResponseRecorder, DecodeResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/decode", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httpReq)

	var resp DecodeResponse
	if w.Code == http.StatusOK || w.Code == http.StatusUnprocessableEntity {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"messages":`+strconv.Itoa(len(messages.IDs())))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin_test_frames_read_total 1")
}

func TestListMessages(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/messages", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count    int           `json:"count"`
		Messages []MessageInfo `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, len(messages.IDs()), resp.Count)
	assert.Len(t, resp.Messages, resp.Count)
	assert.Equal(t, uint16(0), resp.Messages[0].ID)
	assert.Equal(t, "Hello", resp.Messages[0].Name)
	assert.Equal(t, "base", resp.Messages[0].Range)
}

func TestGetMessage(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/messages/3005", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var info MessageInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "PullAnswer", info.Name)
	require.Len(t, info.Fields, 2)
	assert.Equal(t, "has resource", info.Fields[1].Name)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/messages/4000", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/messages/ping", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeFrames(t *testing.T) {
	s := newTestServer(t)
	raw, err := message.Serialize(messages.NewPing())
	require.NoError(t, err)
	w, resp := postDecode(t, s, DecodeRequest{Frames: []string{hex.EncodeToString(raw)}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Messages, 1)
	got := resp.Messages[0]
	assert.Equal(t, "Ping", got.Name)
	assert.Equal(t, uint16(1001), got.Type)
	assert.Equal(t, true, got.Fields["PING"])
	assert.Len(t, got.ShortHash, 64)
}

func TestDecodeStream(t *testing.T) {
	s := newTestServer(t)
	buf := frameBuffer.New(0)
	require.NoError(t, messageIO.WriteMessage(buf, messages.NewPushResource("res", 2), nil))
	require.NoError(t, messageIO.WriteMessage(buf, messages.NewNewTask(serialization.Map{{Key: "blob", Value: []byte{0xab}}}), nil))
	stream := buf.ReadAll()
	w, resp := postDecode(t, s, DecodeRequest{Stream: hex.EncodeToString(stream[:len(stream)-1])})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "res", resp.Messages[0].Fields["resource"])
	assert.Positive(t, resp.Pending)

	w, resp = postDecode(t, s, DecodeRequest{Stream: hex.EncodeToString(stream)})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, map[string]any{"blob": "ab"}, resp.Messages[1].Fields["DATA"])
}

func TestDecodeReportsPartialFailure(t *testing.T) {
	s := newTestServer(t)
	ping, err := message.Serialize(messages.NewPing())
	require.NoError(t, err)
	unknown, err := serialization.Encode([]serialization.Value{int64(4321), []byte{}, 1.0, serialization.Map{}})
	require.NoError(t, err)

	w, resp := postDecode(t, s, DecodeRequest{Frames: []string{hex.EncodeToString(ping), hex.EncodeToString(unknown)}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Len(t, resp.Messages, 1)
	assert.True(t, strings.Contains(resp.Error, "4321"))
}

func TestDecodeBadInput(t *testing.T) {
	s := newTestServer(t)
	w, _ := postDecode(t, s, DecodeRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = postDecode(t, s, DecodeRequest{Frames: []string{"zz"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
