package handler

import (
	"github.com/gin-gonic/gin"

	"room-scheduler-api/internal/model"
)

const userResource = "User"

type userPayload struct {
	Name  string  `json:"name" binding:"required"`
	Email *string `json:"email" binding:"required"`
}

func (p *userPayload) user() *model.User {
	return &model.User{Name: p.Name, Email: *p.Email}
}

func (h *Handler) CreateUser(c *gin.Context) (any, error) {
	var in userPayload
	if err := bind(c, &in); err != nil {
		return nil, err
	}
	if err := h.store.CreateUser(c.Request.Context(), in.user()); err != nil {
		return nil, storeFailure(userResource, "create", err)
	}
	return Ack{Message: "User created successfully"}, nil
}

func (h *Handler) ListUsers(c *gin.Context) (any, error) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		return nil, storeFailure(userResource, "list", err)
	}
	return users, nil
}

func (h *Handler) GetUser(c *gin.Context) (any, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	u, err := h.store.GetUser(c.Request.Context(), id)
	if err != nil {
		return nil, storeFailure(userResource, "get", err)
	}
	return u, nil
}

func (h *Handler) UpdateUser(c *gin.Context) (any, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	var in userPayload
	if err := bind(c, &in); err != nil {
		return nil, err
	}
	if err := h.store.UpdateUser(c.Request.Context(), id, in.user()); err != nil {
		return nil, storeFailure(userResource, "update", err)
	}
	return Ack{Message: "User updated successfully"}, nil
}

func (h *Handler) DeleteUser(c *gin.Context) (any, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		return nil, storeFailure(userResource, "delete", err)
	}
	return Ack{Message: "User deleted successfully"}, nil
}
