package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadsys/acadsys-backend/internal/response"
	"github.com/acadsys/acadsys-backend/internal/store"
)

// failStore maps an entity-store error to the HTTP response. Store faults
// are surfaced explicitly so a caller can tell "store down" from an empty
// collection.
func failStore(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, store.ErrUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
