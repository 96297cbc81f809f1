package handler

import (
	"github.com/gin-gonic/gin"

	"room-scheduler-api/internal/model"
)

const appointmentResource = "Appointment"

// No ordering check between start and end, and no overlap check: the
// store's foreign keys are the only rule applied.
type appointmentPayload struct {
	UserID    *int64           `json:"user_id" binding:"required"`
	RoomID    *int64           `json:"room_id" binding:"required"`
	StartTime *model.Timestamp `json:"start_time" binding:"required"`
	EndTime   *model.Timestamp `json:"end_time" binding:"required"`
	Purpose   string           `json:"purpose"`
}

func (p *appointmentPayload) appointment() (*model.Appointment, error) {
	if err := checkInt4("user_id", *p.UserID); err != nil {
		return nil, err
	}
	if err := checkInt4("room_id", *p.RoomID); err != nil {
		return nil, err
	}
	return &model.Appointment{
		UserID:    *p.UserID,
		RoomID:    *p.RoomID,
		StartTime: *p.StartTime,
		EndTime:   *p.EndTime,
		Purpose:   p.Purpose,
	}, nil
}

func (h *Handler) CreateAppointment(c *gin.Context) (any, error) {
	var in appointmentPayload
	if err := bind(c, &in); err != nil {
		return nil, err
	}
	a, err := in.appointment()
	if err != nil {
		return nil, err
	}
	if err := h.store.CreateAppointment(c.Request.Context(), a); err != nil {
		return nil, storeFailure(appointmentResource, "create", err)
	}
	return Ack{Message: "Appointment created successfully"}, nil
}

func (h *Handler) ListAppointments(c *gin.Context) (any, error) {
	apts, err := h.store.ListAppointments(c.Request.Context())
	if err != nil {
		return nil, storeFailure(appointmentResource, "list", err)
	}
	return apts, nil
}

func (h *Handler) GetAppointment(c *gin.Context) (any, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	a, err := h.store.GetAppointment(c.Request.Context(), id)
	if err != nil {
		return nil, storeFailure(appointmentResource, "get", err)
	}
	return a, nil
}

func (h *Handler) UpdateAppointment(c *gin.Context) (any, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	var in appointmentPayload
	if err := bind(c, &in); err != nil {
		return nil, err
	}
	a, err := in.appointment()
	if err != nil {
		return nil, err
	}
	if err := h.store.UpdateAppointment(c.Request.Context(), id, a); err != nil {
		return nil, storeFailure(appointmentResource, "update", err)
	}
	return Ack{Message: "Appointment updated successfully"}, nil
}

// DeleteAppointment removes the row even though the reply says cancelled.
func (h *Handler) DeleteAppointment(c *gin.Context) (any, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	if err := h.store.DeleteAppointment(c.Request.Context(), id); err != nil {
		return nil, storeFailure(appointmentResource, "delete", err)
	}
	return Ack{Message: "Appointment cancelled"}, nil
}
