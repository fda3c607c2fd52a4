package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nm-morais/go-golem/pkg/message"
)

type FieldInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
	Marker   bool   `json:"marker,omitempty"`
}

type MessageInfo struct {
	ID     uint16      `json:"id"`
	Name   string      `json:"name"`
	Range  string      `json:"range"`
	Fields []FieldInfo `json:"fields"`
}

func describe(id message.ID, factory message.Factory) (MessageInfo, error) {
	schema, err := message.SchemaOf(factory())
	if err != nil {
		return MessageInfo{}, err
	}
	info := MessageInfo{
		ID:     uint16(id),
		Name:   schema.Name(),
		Range:  id.Range(),
		Fields: make([]FieldInfo, 0, len(schema.Fields)),
	}
	for _, f := range schema.Fields {
		fi := FieldInfo{Name: f.Name, Optional: f.Optional, Marker: f.Marker}
		if f.GoType != nil {
			fi.Type = f.GoType.String()
		}
		info.Fields = append(info.Fields, fi)
	}
	return info, nil
}

// handleMessages handles GET /api/v1/messages
func (s *Server) handleMessages(c *gin.Context) {
	ids := s.registry.IDs()
	out := make([]MessageInfo, 0, len(ids))
	for _, id := range ids {
		factory, ok := s.registry.Resolve(id)
		if !ok {
			continue
		}
		info, err := describe(id, factory)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Invalid schema", Message: err.Error()})
			return
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "messages": out})
}

// handleMessage handles GET /api/v1/messages/:id
func (s *Server) handleMessage(c *gin.Context) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 16)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid message id", Message: err.Error()})
		return
	}
	id := message.ID(n)
	factory, ok := s.registry.Resolve(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown message id"})
		return
	}
	info, err := describe(id, factory)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Invalid schema", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}
