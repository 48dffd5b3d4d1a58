package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"itemsapi/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const rootMessage = "You have reached the default route. Back-end server is listening..."

const healthTimeout = 2 * time.Second

const maxItemBodyBytes = 16 << 10

type ItemService interface {
	List(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, item domain.NewItem) (domain.Item, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type errorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type createItemRequest struct {
	NewItemName string `json:"new_item_name" form:"new_item_name" binding:"required"`
	NewItemDesc string `json:"new_item_desc" form:"new_item_desc" binding:"required"`
}

type createItemResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, rootMessage)
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	if err := s.health.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListItems(c *gin.Context) {
	if s.items == nil {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "item service not configured")
		return
	}
	items, err := s.items.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleCreateItem(c *gin.Context) {
	if s.items == nil {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "item service not configured")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxItemBodyBytes)
	var req createItemRequest
	if err := c.ShouldBind(&req); err != nil {
		writeBindError(c, err)
		return
	}
	_, err := s.items.Create(c.Request.Context(), domain.NewItem{
		Name: req.NewItemName,
		Desc: req.NewItemDesc,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, createItemResponse{Success: true, Message: "new record added"})
}

func (s *Server) handleNoRoute(c *gin.Context) {
	writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
}

func writeBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErrorCode(c, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", "request body too large")
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body")
		return
	}
	reasons := make([]domain.PolicyDeny, 0, len(verrs))
	for _, fe := range verrs {
		reasons = append(reasons, domain.PolicyDeny{
			Code:    strings.ToUpper(fe.Tag()),
			Message: fe.Field() + " is " + fe.Tag(),
		})
	}
	writeValidationError(c, reasons)
}

func writeValidationError(c *gin.Context, reasons []domain.PolicyDeny) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Code:    "VALIDATION_ERROR",
		Message: "invalid item",
		Details: map[string]any{"reasons": reasons},
	})
}

func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(c, verr.Reasons)
	case errors.Is(err, domain.ErrValidation):
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid item")
	case errors.Is(err, domain.ErrStorage):
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		writeErrorCode(c, http.StatusInternalServerError, "STORAGE_ERROR", "storage unavailable")
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}

var registerTagNamesOnce sync.Once

// registerValidatorTagNames makes validation errors name fields by their
// JSON key instead of the Go struct field.
func registerValidatorTagNames() {
	registerTagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
}
