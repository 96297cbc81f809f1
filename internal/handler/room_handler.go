package handler

import (
	"github.com/gin-gonic/gin"

	"room-scheduler-api/internal/model"
)

const roomResource = "Room"

// capacity may arrive as "20" as well as 20
type roomPayload struct {
	Name     string         `json:"name" binding:"required"`
	Location string         `json:"location"`
	Capacity *model.FlexInt `json:"capacity" binding:"required"`
}

func (p *roomPayload) room() (*model.Room, error) {
	if *p.Capacity < 0 {
		return nil, &ValidationError{Detail: "capacity must not be negative"}
	}
	if err := checkInt4("capacity", int64(*p.Capacity)); err != nil {
		return nil, err
	}
	return &model.Room{Name: p.Name, Location: p.Location, Capacity: int(*p.Capacity)}, nil
}

func (h *Handler) bindRoom(c *gin.Context) (*model.Room, error) {
	var in roomPayload
	if err := bind(c, &in); err != nil {
		return nil, err
	}
	return in.room()
}

func (h *Handler) CreateRoom(c *gin.Context) (any, error) {
	r, err := h.bindRoom(c)
	if err != nil {
		return nil, err
	}
	if err := h.store.CreateRoom(c.Request.Context(), r); err != nil {
		return nil, storeFailure(roomResource, "create", err)
	}
	return Ack{Message: "Room created successfully"}, nil
}

func (h *Handler) ListRooms(c *gin.Context) (any, error) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		return nil, storeFailure(roomResource, "list", err)
	}
	return rooms, nil
}

func (h *Handler) GetRoom(c *gin.Context) (any, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	r, err := h.store.GetRoom(c.Request.Context(), id)
	if err != nil {
		return nil, storeFailure(roomResource, "get", err)
	}
	return r, nil
}

func (h *Handler) UpdateRoom(c *gin.Context) (any, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	r, err := h.bindRoom(c)
	if err != nil {
		return nil, err
	}
	if err := h.store.UpdateRoom(c.Request.Context(), id, r); err != nil {
		return nil, storeFailure(roomResource, "update", err)
	}
	return Ack{Message: "Room updated successfully"}, nil
}

func (h *Handler) DeleteRoom(c *gin.Context) (any, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	if err := h.store.DeleteRoom(c.Request.Context(), id); err != nil {
		return nil, storeFailure(roomResource, "delete", err)
	}
	return Ack{Message: "Room deleted successfully"}, nil
}
