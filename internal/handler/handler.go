package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"room-scheduler-api/internal/model"
	"room-scheduler-api/internal/store"
)

// Store is the data access surface the handlers need; *store.Store
// satisfies it.
type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, u *model.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateRoom(ctx context.Context, r *model.Room) error
	ListRooms(ctx context.Context) ([]model.Room, error)
	GetRoom(ctx context.Context, id int64) (*model.Room, error)
	UpdateRoom(ctx context.Context, id int64, r *model.Room) error
	DeleteRoom(ctx context.Context, id int64) error

	CreateAppointment(ctx context.Context, a *model.Appointment) error
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, a *model.Appointment) error
	DeleteAppointment(ctx context.Context, id int64) error
}

var _ Store = (*store.Store)(nil)

type Handler struct {
	store Store
	log   *zap.Logger
}

func New(st Store, log *zap.Logger) *Handler {
	return &Handler{store: st, log: log}
}

// Ack is the body of every successful write.
type Ack struct {
	Message string `json:"message"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// ValidationError is reported before the store is touched.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// StoreError is any failed statement, including integrity violations.
type StoreError struct {
	Resource string
	Op       string
	Err      error
}

func (e *StoreError) Error() string {
	var se *store.Error
	if errors.As(e.Err, &se) {
		switch se.Kind {
		case store.KindConnection:
			return "Database connection failed"
		case store.KindIntegrity:
			return fmt.Sprintf("Failed to %s %s: referenced row missing or still referenced", e.Op, strings.ToLower(e.Resource))
		}
	}
	return fmt.Sprintf("Failed to %s %s", e.Op, strings.ToLower(e.Resource))
}

func (e *StoreError) Unwrap() error { return e.Err }

// storeFailure tags a store result for resource/op.
func storeFailure(resource, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Resource: resource}
	}
	return &StoreError{Resource: resource, Op: op, Err: err}
}

func statusOf(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &nf):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// endpoint returns either a body for 200 or a tagged error.
type endpoint func(c *gin.Context) (any, error)

func (h *Handler) wrap(fn endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := fn(c)
		if err != nil {
			code := statusOf(err)
			if code >= http.StatusInternalServerError {
				h.log.Error("request failed",
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
			}
			c.JSON(code, errorBody{Detail: err.Error()})
			return
		}
		c.JSON(http.StatusOK, body)
	}
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &ValidationError{Detail: "id is out of range"}
	}
	if err != nil {
		return 0, &ValidationError{Detail: "id must be an integer"}
	}
	return id, nil
}

// checkInt4 rejects values the integer columns cannot hold.
func checkInt4(field string, v int64) error {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return &ValidationError{Detail: field + " is out of range"}
	}
	return nil
}

func bind(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return &ValidationError{Detail: fe.Field() + " is required"}
		}
		return &ValidationError{Detail: fe.Field() + " is invalid"}
	}
	return &ValidationError{Detail: "invalid request body: " + err.Error()}
}

var tagNameOnce sync.Once

// useJSONFieldNames makes validation messages name fields the way the
// client sends them.
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}
